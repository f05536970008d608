package services

import (
	"github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

// AdminService backs the admin panel: lesson CRUD and ordering, quiz
// management and the user directory.
type AdminService struct {
	context.DefaultService

	dbSvc     *DatabaseService
	lessonSvc *LessonService
}

const ADMIN_SVC = "admin_svc"

func (svc AdminService) Id() string {
	return ADMIN_SVC
}

func (svc *AdminService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.lessonSvc = svc.Service(LESSON_SVC).(*LessonService)
	return nil
}

func (svc *AdminService) ListLessons() ([]dto.AdminLessonResponse, error) {
	lessons, err := svc.dbSvc.ListAllLessons()
	if err != nil {
		return nil, err
	}

	resp := make([]dto.AdminLessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		item := toAdminLessonResponse(&lesson)
		if hasQuiz, err := svc.dbSvc.QuizExistsForLesson(lesson.ID); err == nil {
			item.HasQuiz = hasQuiz
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (svc *AdminService) CreateLesson(req dto.CreateLessonRequest) (*dto.AdminLessonResponse, error) {
	lesson := &model.Lesson{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		VideoType:       req.VideoType,
		VideoThumbnail:  req.VideoThumbnail,
		DurationMinutes: req.DurationMinutes,
		Status:          req.Status,
	}
	if lesson.Status == "" {
		lesson.Status = shared.LessonStatusDraft
	}
	if lesson.DurationMinutes == 0 {
		lesson.DurationMinutes = 3
	}

	if err := svc.dbSvc.CreateLesson(lesson); err != nil {
		return nil, err
	}

	svc.lessonSvc.InvalidateLessonCache()

	resp := toAdminLessonResponse(lesson)
	return &resp, nil
}

func (svc *AdminService) UpdateLesson(lessonID string, req dto.UpdateLessonRequest) (*dto.AdminLessonResponse, error) {
	lesson, err := svc.dbSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.VideoType != nil {
		lesson.VideoType = *req.VideoType
	}
	if req.VideoThumbnail != nil {
		lesson.VideoThumbnail = *req.VideoThumbnail
	}
	if req.DurationMinutes != nil {
		lesson.DurationMinutes = *req.DurationMinutes
	}
	if req.Status != nil {
		lesson.Status = *req.Status
	}

	if err := svc.dbSvc.UpdateLesson(lesson); err != nil {
		return nil, err
	}

	svc.lessonSvc.InvalidateLessonCache()

	resp := toAdminLessonResponse(lesson)
	return &resp, nil
}

func (svc *AdminService) DeleteLesson(lessonID string) error {
	if _, err := svc.dbSvc.GetLesson(lessonID); err != nil {
		return err
	}
	if err := svc.dbSvc.DeleteLesson(lessonID); err != nil {
		return err
	}
	svc.lessonSvc.InvalidateLessonCache()
	return nil
}

// PlanReorder finds the neighbor to swap a lesson with. Moving the
// first lesson up or the last lesson down is a no-op and returns
// ok = false.
func PlanReorder(lessons []model.Lesson, lessonID, direction string) (neighborID string, ok bool) {
	idx := -1
	for i := range lessons {
		if lessons[i].ID == lessonID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false
	}

	switch direction {
	case "up":
		if idx == 0 {
			return "", false
		}
		return lessons[idx-1].ID, true
	case "down":
		if idx == len(lessons)-1 {
			return "", false
		}
		return lessons[idx+1].ID, true
	}
	return "", false
}

// ReorderLesson moves a lesson one position up or down by swapping
// order indexes with its neighbor. Boundary moves succeed without
// changing anything.
func (svc *AdminService) ReorderLesson(lessonID, direction string) ([]dto.AdminLessonResponse, error) {
	lessons, err := svc.dbSvc.ListAllLessons()
	if err != nil {
		return nil, err
	}

	neighborID, ok := PlanReorder(lessons, lessonID, direction)
	if !ok {
		found := false
		for i := range lessons {
			if lessons[i].ID == lessonID {
				found = true
				break
			}
		}
		if !found {
			return nil, shared.NewNotFoundError(nil, "Lesson not found")
		}
		return svc.ListLessons()
	}

	if err := svc.dbSvc.SwapLessonOrder(lessonID, neighborID); err != nil {
		return nil, err
	}

	svc.lessonSvc.InvalidateLessonCache()
	return svc.ListLessons()
}

func (svc *AdminService) CreateQuiz(lessonID string, req dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	if _, err := svc.dbSvc.GetLesson(lessonID); err != nil {
		return nil, err
	}

	if exists, err := svc.dbSvc.QuizExistsForLesson(lessonID); err != nil {
		return nil, err
	} else if exists {
		return nil, shared.NewConflictError(nil, "Lesson already has a quiz")
	}

	for _, q := range req.Questions {
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return nil, shared.NewBadRequestError(nil, "Every question needs at least one correct option")
		}
		if q.Type != shared.QuestionTypeMultiple && correct > 1 {
			return nil, shared.NewBadRequestError(nil, "Single choice questions allow only one correct option")
		}
	}

	quiz := &model.Quiz{
		ID:           uuid.NewString(),
		LessonID:     lessonID,
		Title:        req.Title,
		PassingScore: req.PassingScore,
	}
	if quiz.PassingScore == 0 {
		quiz.PassingScore = 83
	}

	for _, q := range req.Questions {
		question := model.QuizQuestion{
			Text: q.Text,
			Type: q.Type,
		}
		if question.Type == "" {
			question.Type = shared.QuestionTypeSingle
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, model.QuizOption{
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := svc.dbSvc.CreateQuiz(quiz); err != nil {
		return nil, err
	}

	return toQuizResponse(quiz), nil
}

func (svc *AdminService) DeleteQuiz(lessonID string) error {
	quiz, err := svc.dbSvc.GetQuizByLessonID(lessonID)
	if err != nil {
		return err
	}
	return svc.dbSvc.DeleteQuiz(quiz.ID)
}

func (svc *AdminService) ListUsers(search string, page, limit int) (*dto.AdminUserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	rows, total, err := svc.dbSvc.ListUsersWithStats(search, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &dto.AdminUserListResponse{Users: rows, Total: total}, nil
}

// GetUserDetail returns one user's profile, promo state and full quiz
// attempt history.
func (svc *AdminService) GetUserDetail(userID string) (*dto.AdminUserDetailResponse, error) {
	user, err := svc.dbSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	role, err := svc.dbSvc.GetUserRole(userID)
	if err != nil {
		return nil, err
	}

	detail := &dto.AdminUserDetailResponse{
		User:     toUserResponse(user, role),
		Role:     role,
		Attempts: []dto.QuizAttemptResponse{},
	}

	if promo, err := svc.dbSvc.GetPromoCodeByUserID(userID); err == nil {
		detail.Promo = toPromoResponse(promo)
	}

	progress, err := svc.dbSvc.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}
	for _, p := range progress {
		if p.Completed {
			detail.CompletedLessons++
		}
	}

	attempts, err := svc.dbSvc.GetAllUserQuizAttempts(userID)
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		item := dto.QuizAttemptResponse{
			ID:        a.ID,
			QuizID:    a.QuizID,
			Score:     a.Score,
			Passed:    a.Passed,
			CreatedAt: a.CreatedAt,
		}
		if a.TimeTakenSeconds != nil {
			item.TimeTakenSeconds = *a.TimeTakenSeconds
		}
		detail.Attempts = append(detail.Attempts, item)
	}

	return detail, nil
}

func (svc *AdminService) ListPromoCodes(page, limit int) (*dto.AdminPromoListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	rows, total, err := svc.dbSvc.ListPromoCodesWithUsers(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &dto.AdminPromoListResponse{Codes: rows, Total: total}, nil
}

// ExpirePromoCode retires an unused code. Activated codes stay
// activated; the subscription they granted is not clawed back.
func (svc *AdminService) ExpirePromoCode(codeID string) error {
	promo, err := svc.dbSvc.GetPromoCodeByID(codeID)
	if err != nil {
		return err
	}
	if promo.Status == shared.PromoStatusActivated {
		return shared.NewConflictError(nil, "Promo code is already activated")
	}
	return svc.dbSvc.ExpirePromoCode(codeID)
}

func (svc *AdminService) SetUserRole(userID string, req dto.SetUserRoleRequest) error {
	if _, err := svc.dbSvc.GetUserByID(userID); err != nil {
		return err
	}
	return svc.dbSvc.SetUserRole(userID, req.Role)
}

// SetUserActive disables or re-enables an account. Disabling also
// kills the user's sessions so they drop out immediately.
func (svc *AdminService) SetUserActive(userID string, active bool) error {
	if _, err := svc.dbSvc.GetUserByID(userID); err != nil {
		return err
	}
	if err := svc.dbSvc.UpdateUserFields(userID, map[string]interface{}{"is_active": active}); err != nil {
		return err
	}
	if !active {
		return svc.dbSvc.DeactivateUserSessions(userID)
	}
	return nil
}

func toAdminLessonResponse(lesson *model.Lesson) dto.AdminLessonResponse {
	return dto.AdminLessonResponse{
		ID:              lesson.ID,
		Title:           lesson.Title,
		Description:     lesson.Description,
		VideoURL:        lesson.VideoURL,
		VideoType:       lesson.VideoType,
		OrderIndex:      lesson.OrderIndex,
		Status:          lesson.Status,
		DurationMinutes: lesson.DurationMinutes,
		CreatedAt:       lesson.CreatedAt,
		UpdatedAt:       lesson.UpdatedAt,
	}
}
