package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/perplexity-school/api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(email, code string) error
	ResendVerificationEmail(email string) error
	Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	RefreshToken(req dto.RefreshTokenRequest, clientIP, userAgent string) (*dto.RefreshTokenResponse, error)
	Logout(userID, sessionID string) error
	LogoutAllDevices(userID string) error
	ForgotPassword(email string) error
	ResetPassword(req dto.ResetPasswordRequest) error
	ChangePassword(userID string, req dto.ChangePasswordRequest) error
	RequiredAuth() fiber.Handler
	RequireAdmin() fiber.Handler
}

type UserServiceInterface interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetSessions(userID, currentSessionID string) ([]dto.SessionResponse, error)
	RevokeSession(userID, sessionID string) error
}

type LessonServiceInterface interface {
	GetCatalog(userID string) (*dto.CatalogResponse, error)
	GetLesson(userID, lessonID string) (*dto.LessonDetailResponse, error)
	MarkComplete(userID, lessonID string) (*dto.ProgressResponse, error)
	MarkIncomplete(userID, lessonID string) (*dto.ProgressResponse, error)
}

type NotesServiceInterface interface {
	Save(userID, lessonID, notes string) error
}

type QuizServiceInterface interface {
	GetQuizForLesson(lessonID string) (*dto.QuizResponse, error)
	Submit(userID, lessonID string, req dto.SubmitQuizRequest) (*dto.QuizResultResponse, error)
	GetUserAttempts(userID, lessonID string) ([]dto.QuizAttemptResponse, error)
}

type PromoServiceInterface interface {
	GetUserPromo(userID string) (*dto.PromoCodeResponse, error)
	Activate(userID string, req dto.ActivatePromoRequest) (*dto.PromoCodeResponse, error)
}

type AdminServiceInterface interface {
	ListLessons() ([]dto.AdminLessonResponse, error)
	CreateLesson(req dto.CreateLessonRequest) (*dto.AdminLessonResponse, error)
	UpdateLesson(lessonID string, req dto.UpdateLessonRequest) (*dto.AdminLessonResponse, error)
	DeleteLesson(lessonID string) error
	ReorderLesson(lessonID, direction string) ([]dto.AdminLessonResponse, error)
	CreateQuiz(lessonID string, req dto.CreateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(lessonID string) error
	ListUsers(search string, page, limit int) (*dto.AdminUserListResponse, error)
	GetUserDetail(userID string) (*dto.AdminUserDetailResponse, error)
	SetUserRole(userID string, req dto.SetUserRoleRequest) error
	SetUserActive(userID string, active bool) error
	ListPromoCodes(page, limit int) (*dto.AdminPromoListResponse, error)
	ExpirePromoCode(codeID string) error
}

type MediaServiceInterface interface {
	UploadThumbnail(lessonID string, file *multipart.FileHeader) (*dto.UploadResponse, error)
	UploadVideo(lessonID string, file *multipart.FileHeader) (*dto.UploadResponse, error)
	GetPlaybackURL(lessonID string) (*dto.PresignedURLResponse, error)
}
