package services

import (
	goContext "context"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/sirupsen/logrus"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

// LessonService serves the student-facing catalog and progression.
// Unlock state is never stored; it is derived from the ordered lesson
// list and the user's completion rows on every read.
type LessonService struct {
	context.DefaultService

	dbSvc    *DatabaseService
	redisSvc *RedisService
	mediaSvc *MediaService
}

const LESSON_SVC = "lesson_svc"

const lessonListCacheKey = "lessons:published"
const lessonListCacheTTL = 5 * time.Minute

func (svc LessonService) Id() string {
	return LESSON_SVC
}

func (svc *LessonService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *LessonService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	return nil
}

// ComputeUnlocks returns, for each lesson in order, whether it is
// reachable: the first lesson always is, every other lesson requires
// the previous one completed. Completing lesson N never locks earlier
// lessons.
func ComputeUnlocks(lessons []model.Lesson, completed map[string]bool) []bool {
	unlocked := make([]bool, len(lessons))
	for i := range lessons {
		if i == 0 {
			unlocked[i] = true
			continue
		}
		unlocked[i] = completed[lessons[i-1].ID]
	}
	return unlocked
}

// IsLessonUnlocked reports whether lessonID is reachable within the
// ordered list. Unknown lessons are locked.
func IsLessonUnlocked(lessons []model.Lesson, completed map[string]bool, lessonID string) bool {
	unlocked := ComputeUnlocks(lessons, completed)
	for i := range lessons {
		if lessons[i].ID == lessonID {
			return unlocked[i]
		}
	}
	return false
}

func (svc *LessonService) publishedLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	ctx := goContext.Background()

	if err := svc.redisSvc.GetJSON(ctx, lessonListCacheKey, &lessons); err == nil && len(lessons) > 0 {
		return lessons, nil
	}

	lessons, err := svc.dbSvc.ListPublishedLessons()
	if err != nil {
		return nil, err
	}

	if err := svc.redisSvc.Set(ctx, lessonListCacheKey, lessons, lessonListCacheTTL); err != nil {
		logrus.WithError(err).Warn("Failed to cache lesson list")
	}

	return lessons, nil
}

// InvalidateLessonCache drops the cached published list. Admin writes
// call this so students never see a stale ordering.
func (svc *LessonService) InvalidateLessonCache() {
	if err := svc.redisSvc.Delete(goContext.Background(), lessonListCacheKey); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate lesson cache")
	}
}

func (svc *LessonService) completionMap(userID string) (map[string]bool, map[string]*model.Progress, error) {
	progresses, err := svc.dbSvc.GetUserProgress(userID)
	if err != nil {
		return nil, nil, err
	}

	completed := make(map[string]bool, len(progresses))
	byLesson := make(map[string]*model.Progress, len(progresses))
	for i := range progresses {
		p := &progresses[i]
		byLesson[p.LessonID] = p
		if p.Completed {
			completed[p.LessonID] = true
		}
	}
	return completed, byLesson, nil
}

func (svc *LessonService) GetCatalog(userID string) (*dto.CatalogResponse, error) {
	lessons, err := svc.publishedLessons()
	if err != nil {
		return nil, err
	}

	completed, byLesson, err := svc.completionMap(userID)
	if err != nil {
		return nil, err
	}

	unlocked := ComputeUnlocks(lessons, completed)

	resp := &dto.CatalogResponse{
		Lessons:      make([]dto.CatalogLesson, 0, len(lessons)),
		TotalLessons: len(lessons),
	}

	for i, lesson := range lessons {
		item := dto.CatalogLesson{
			ID:              lesson.ID,
			Title:           lesson.Title,
			Description:     lesson.Description,
			VideoThumbnail:  svc.mediaSvc.ResolveAssetURL(lesson.VideoThumbnail),
			OrderIndex:      lesson.OrderIndex,
			DurationMinutes: lesson.DurationMinutes,
			Unlocked:        unlocked[i],
		}

		if hasQuiz, err := svc.dbSvc.QuizExistsForLesson(lesson.ID); err == nil {
			item.HasQuiz = hasQuiz
		}

		if p, ok := byLesson[lesson.ID]; ok {
			item.Completed = p.Completed
			item.CompletedAt = p.CompletedAt
			item.ProgressPercentage = p.ProgressPercentage
		}
		if item.Completed {
			resp.CompletedCount++
		}

		resp.Lessons = append(resp.Lessons, item)
	}

	return resp, nil
}

// GetLesson returns the full lesson body, but only once the lesson is
// unlocked for this user.
func (svc *LessonService) GetLesson(userID, lessonID string) (*dto.LessonDetailResponse, error) {
	lesson, err := svc.dbSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Status != shared.LessonStatusPublished {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}

	lessons, err := svc.publishedLessons()
	if err != nil {
		return nil, err
	}
	completed, byLesson, err := svc.completionMap(userID)
	if err != nil {
		return nil, err
	}

	if !IsLessonUnlocked(lessons, completed, lessonID) {
		return nil, shared.NewForbiddenError(nil, "Complete the previous lesson first")
	}

	resp := &dto.LessonDetailResponse{
		ID:              lesson.ID,
		Title:           lesson.Title,
		Description:     lesson.Description,
		Content:         lesson.Content,
		VideoURL:        lesson.VideoURL,
		VideoType:       lesson.VideoType,
		VideoThumbnail:  svc.mediaSvc.ResolveAssetURL(lesson.VideoThumbnail),
		OrderIndex:      lesson.OrderIndex,
		DurationMinutes: lesson.DurationMinutes,
	}

	if quiz, err := svc.dbSvc.GetQuizByLessonID(lessonID); err == nil {
		resp.QuizID = quiz.ID
	}

	if p, ok := byLesson[lessonID]; ok {
		resp.Completed = p.Completed
		resp.CompletedAt = p.CompletedAt
		resp.ProgressPercentage = p.ProgressPercentage
		resp.Notes = p.Notes
	}

	return resp, nil
}

// MarkComplete is idempotent; marking an already completed lesson again
// keeps the original completion time.
func (svc *LessonService) MarkComplete(userID, lessonID string) (*dto.ProgressResponse, error) {
	lesson, err := svc.dbSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Status != shared.LessonStatusPublished {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}

	lessons, err := svc.publishedLessons()
	if err != nil {
		return nil, err
	}
	completed, byLesson, err := svc.completionMap(userID)
	if err != nil {
		return nil, err
	}

	if !IsLessonUnlocked(lessons, completed, lessonID) {
		return nil, shared.NewForbiddenError(nil, "Complete the previous lesson first")
	}

	now := time.Now()
	completedAt := &now
	notes := ""
	if p, ok := byLesson[lessonID]; ok {
		if p.Completed && p.CompletedAt != nil {
			completedAt = p.CompletedAt
		}
		notes = p.Notes
	}

	progress := &model.Progress{
		UserID:             userID,
		LessonID:           lessonID,
		Completed:          true,
		CompletedAt:        completedAt,
		ProgressPercentage: 100,
		Notes:              notes,
	}
	if err := svc.dbSvc.UpsertProgress(progress); err != nil {
		return nil, err
	}

	if !completed[lessonID] {
		RecordLessonCompletion()
	}

	return &dto.ProgressResponse{
		LessonID:           lessonID,
		Completed:          true,
		CompletedAt:        completedAt,
		ProgressPercentage: 100,
	}, nil
}

// MarkIncomplete reverts a completion. Lessons after this one lock
// again on the next catalog read; their progress rows are untouched.
func (svc *LessonService) MarkIncomplete(userID, lessonID string) (*dto.ProgressResponse, error) {
	if _, err := svc.dbSvc.GetLesson(lessonID); err != nil {
		return nil, err
	}

	_, byLesson, err := svc.completionMap(userID)
	if err != nil {
		return nil, err
	}

	notes := ""
	if p, ok := byLesson[lessonID]; ok {
		notes = p.Notes
	}

	progress := &model.Progress{
		UserID:             userID,
		LessonID:           lessonID,
		Completed:          false,
		CompletedAt:        nil,
		ProgressPercentage: 0,
		Notes:              notes,
	}
	if err := svc.dbSvc.UpsertProgress(progress); err != nil {
		return nil, err
	}

	return &dto.ProgressResponse{
		LessonID:           lessonID,
		Completed:          false,
		ProgressPercentage: 0,
	}, nil
}
