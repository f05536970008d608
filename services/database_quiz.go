package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/perplexity-school/api/model"
)

func (svc *DatabaseService) GetQuizByLessonID(lessonID string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := svc.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("lesson_id = ?", lessonID).
		First(&quiz).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return &quiz, nil
}

func (svc *DatabaseService) GetQuizByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := svc.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("id = ?", id).
		First(&quiz).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return &quiz, nil
}

func (svc *DatabaseService) QuizExistsForLesson(lessonID string) (bool, error) {
	var count int64
	err := svc.db.Model(&model.Quiz{}).Where("lesson_id = ?", lessonID).Count(&count).Error
	if err != nil {
		return false, svc.HandleError(err)
	}
	return count > 0, nil
}

// CreateQuiz persists the quiz with its question and option tree in one
// transaction.
func (svc *DatabaseService) CreateQuiz(quiz *model.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	for qi := range quiz.Questions {
		question := &quiz.Questions[qi]
		if question.ID == "" {
			question.ID = uuid.NewString()
		}
		question.QuizID = quiz.ID
		question.OrderIndex = qi + 1
		for oi := range question.Options {
			option := &question.Options[oi]
			if option.ID == "" {
				option.ID = uuid.NewString()
			}
			option.QuestionID = question.ID
			option.OrderIndex = oi + 1
		}
	}

	return svc.HandleError(svc.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	}))
}

func (svc *DatabaseService) DeleteQuiz(id string) error {
	return svc.HandleError(svc.db.Transaction(func(tx *gorm.DB) error {
		return deleteQuizTx(tx, id)
	}))
}

func deleteQuizTx(tx *gorm.DB, quizID string) error {
	var questionIDs []string
	err := tx.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quizID).Pluck("id", &questionIDs).Error
	if err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.QuizOption{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
		return err
	}
	if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizAttempt{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", quizID).Delete(&model.Quiz{}).Error
}

func (svc *DatabaseService) CreateQuizAttempt(attempt *model.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	return svc.HandleError(svc.db.Create(attempt).Error)
}

// GetAllUserQuizAttempts returns a user's attempts across every quiz,
// newest first. Backs the admin user detail view.
func (svc *DatabaseService) GetAllUserQuizAttempts(userID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := svc.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return attempts, nil
}

func (svc *DatabaseService) GetUserQuizAttempts(userID, quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := svc.db.
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return attempts, nil
}
