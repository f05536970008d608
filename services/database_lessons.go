package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

func (svc *DatabaseService) ListPublishedLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := svc.db.
		Where("status = ?", shared.LessonStatusPublished).
		Order("order_index ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return lessons, nil
}

func (svc *DatabaseService) ListAllLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := svc.db.Order("order_index ASC").Find(&lessons).Error; err != nil {
		return nil, svc.HandleError(err)
	}
	return lessons, nil
}

func (svc *DatabaseService) GetLesson(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := svc.db.Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, svc.HandleError(err)
	}
	return &lesson, nil
}

// CreateLesson appends at the end of the ordering.
func (svc *DatabaseService) CreateLesson(lesson *model.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	return svc.HandleError(svc.db.Transaction(func(tx *gorm.DB) error {
		var maxIndex *int
		if err := tx.Model(&model.Lesson{}).Select("MAX(order_index)").Scan(&maxIndex).Error; err != nil {
			return err
		}
		if maxIndex == nil {
			lesson.OrderIndex = 1
		} else {
			lesson.OrderIndex = *maxIndex + 1
		}
		return tx.Create(lesson).Error
	}))
}

func (svc *DatabaseService) UpdateLesson(lesson *model.Lesson) error {
	return svc.HandleError(svc.db.Save(lesson).Error)
}

func (svc *DatabaseService) DeleteLesson(id string) error {
	return svc.HandleError(svc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		var quiz model.Quiz
		err := tx.Where("lesson_id = ?", id).First(&quiz).Error
		if err == nil {
			if err := deleteQuizTx(tx, quiz.ID); err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Lesson{}).Error
	}))
}

// SwapLessonOrder exchanges the order_index of two lessons in one
// transaction. A sentinel index sidesteps the unique constraint on
// order_index mid swap.
func (svc *DatabaseService) SwapLessonOrder(aID, bID string) error {
	return svc.HandleError(svc.db.Transaction(func(tx *gorm.DB) error {
		var a, b model.Lesson
		if err := tx.Where("id = ?", aID).First(&a).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", bID).First(&b).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Lesson{}).Where("id = ?", a.ID).Update("order_index", -1).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Lesson{}).Where("id = ?", b.ID).Update("order_index", a.OrderIndex).Error; err != nil {
			return err
		}
		return tx.Model(&model.Lesson{}).Where("id = ?", a.ID).Update("order_index", b.OrderIndex).Error
	}))
}

func (svc *DatabaseService) GetProgress(userID, lessonID string) (*model.Progress, error) {
	var progress model.Progress
	err := svc.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return &progress, nil
}

func (svc *DatabaseService) GetUserProgress(userID string) ([]model.Progress, error) {
	var progresses []model.Progress
	if err := svc.db.Where("user_id = ?", userID).Find(&progresses).Error; err != nil {
		return nil, svc.HandleError(err)
	}
	return progresses, nil
}

// UpsertProgress writes one user/lesson progress row idempotently. The
// unique (user_id, lesson_id) index makes concurrent first writes
// collapse into a single row.
func (svc *DatabaseService) UpsertProgress(progress *model.Progress) error {
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	now := time.Now()
	progress.LastAccessed = &now

	return svc.HandleError(svc.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed", "completed_at", "progress_percentage", "last_accessed", "updated_at",
		}),
	}).Create(progress).Error)
}

// UpsertNotes writes only the notes column, leaving completion state
// untouched so an autosave can never flip a lesson back to incomplete.
func (svc *DatabaseService) UpsertNotes(userID, lessonID, notes string) error {
	now := time.Now()
	progress := &model.Progress{
		ID:           uuid.NewString(),
		UserID:       userID,
		LessonID:     lessonID,
		Notes:        notes,
		LastAccessed: &now,
	}

	return svc.HandleError(svc.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"notes", "last_accessed", "updated_at"}),
	}).Create(progress).Error)
}
