package dto

import "time"

type CreateLessonRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"omitempty,max=2000"`
	Content         string `json:"content" validate:"omitempty"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	VideoType       string `json:"video_type" validate:"omitempty,oneof=youtube vimeo bunny direct"`
	VideoThumbnail  string `json:"video_thumbnail" validate:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gte=0"`
	Status          string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

func (r CreateLessonRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateLessonRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	Content         *string `json:"content"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	VideoType       *string `json:"video_type" validate:"omitempty,oneof=youtube vimeo bunny direct"`
	VideoThumbnail  *string `json:"video_thumbnail" validate:"omitempty,url"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
	Status          *string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

func (r UpdateLessonRequest) Validate() error {
	return validate.Struct(r)
}

type ReorderLessonRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

func (r ReorderLessonRequest) Validate() error {
	return validate.Struct(r)
}

type AdminLessonResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	VideoURL        string    `json:"video_url,omitempty"`
	VideoType       string    `json:"video_type,omitempty"`
	OrderIndex      int       `json:"order_index"`
	Status          string    `json:"status"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	HasQuiz         bool      `json:"has_quiz"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AdminUserRow aggregates a user with role and learning stats for the
// admin user list.
type AdminUserRow struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	FullName         string     `json:"full_name,omitempty"`
	Role             string     `json:"role"`
	EmailVerified    bool       `json:"email_verified"`
	IsActive         bool       `json:"is_active"`
	HasPerplexityPro bool       `json:"has_perplexity_pro"`
	PromoStatus      string     `json:"promo_status,omitempty"`
	CompletedLessons int        `json:"completed_lessons"`
	AvgProgress      float64    `json:"avg_progress"`
	QuizAttempts     int        `json:"quiz_attempts"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type AdminUserListResponse struct {
	Users []AdminUserRow `json:"users"`
	Total int64          `json:"total"`
}

// AdminUserDetailResponse is the drill-down view for one user: profile,
// promo state and their full quiz attempt history.
type AdminUserDetailResponse struct {
	User             UserResponse          `json:"user"`
	Role             string                `json:"role"`
	Promo            *PromoCodeResponse    `json:"promo,omitempty"`
	CompletedLessons int                   `json:"completed_lessons"`
	Attempts         []QuizAttemptResponse `json:"attempts"`
}

type AdminPromoCodeRow struct {
	ID                     string     `json:"id"`
	Code                   string     `json:"code"`
	UserID                 string     `json:"user_id"`
	UserEmail              string     `json:"user_email,omitempty"`
	Status                 string     `json:"status"`
	PerplexityAccountEmail string     `json:"perplexity_account_email,omitempty"`
	ActivatedAt            *time.Time `json:"activated_at,omitempty"`
	ExpiresAt              time.Time  `json:"expires_at"`
	CreatedAt              time.Time  `json:"created_at"`
}

type AdminPromoListResponse struct {
	Codes []AdminPromoCodeRow `json:"codes"`
	Total int64               `json:"total"`
}

type SetUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin"`
}

func (r SetUserRoleRequest) Validate() error {
	return validate.Struct(r)
}

type SetUserActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type CreateQuizRequest struct {
	Title        string                  `json:"title" validate:"required,max=200"`
	PassingScore int                     `json:"passing_score" validate:"omitempty,gte=1,lte=100"`
	Questions    []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

func (r CreateQuizRequest) Validate() error {
	return validate.Struct(r)
}

type CreateQuestionRequest struct {
	Text    string                `json:"text" validate:"required"`
	Type    string                `json:"type" validate:"omitempty,oneof=single multiple"`
	Options []CreateOptionRequest `json:"options" validate:"required,min=2,dive"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}
