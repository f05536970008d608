package model

import (
	"encoding/json"
	"time"
)

type Quiz struct {
	ID           string `json:"id" gorm:"primaryKey"`
	LessonID     string `json:"lesson_id" gorm:"not null;uniqueIndex"`
	Title        string `json:"title" gorm:"not null"`
	Description  string `json:"description" gorm:"type:text"`
	Instructions string `json:"instructions" gorm:"type:text"`
	TimerSeconds *int   `json:"timer_seconds"`
	PassingScore int    `json:"passing_score" gorm:"default:83"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type QuizQuestion struct {
	ID          string `json:"id" gorm:"primaryKey"`
	QuizID      string `json:"quiz_id" gorm:"not null;index"`
	Text        string `json:"text" gorm:"type:text;not null"`
	Type        string `json:"type" gorm:"default:single"` // single, multiple
	Explanation string `json:"explanation" gorm:"type:text"`
	OrderIndex  int    `json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Options []QuizOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type QuizOption struct {
	ID         string `json:"id" gorm:"primaryKey"`
	QuestionID string `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index"`
}

// QuizAttempt records one graded submission. Answers maps question id
// to the selected option ids, stored as JSON.
type QuizAttempt struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	QuizID           string          `json:"quiz_id" gorm:"not null;index"`
	UserID           string          `json:"user_id" gorm:"not null;index"`
	Score            int             `json:"score"`
	Passed           bool            `json:"passed"`
	Answers          json.RawMessage `json:"answers" gorm:"type:text"`
	TimeTakenSeconds *int            `json:"time_taken_seconds"`
	CreatedAt        time.Time       `json:"created_at"`
}
