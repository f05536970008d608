package dto

import "time"

// CatalogLesson is a lesson as seen from a student's catalog, with the
// derived unlock state and the student's own progress attached.
type CatalogLesson struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	VideoThumbnail  string `json:"video_thumbnail,omitempty"`
	OrderIndex      int    `json:"order_index"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	HasQuiz         bool   `json:"has_quiz"`

	Unlocked           bool       `json:"unlocked"`
	Completed          bool       `json:"completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
}

type CatalogResponse struct {
	Lessons        []CatalogLesson `json:"lessons"`
	TotalLessons   int             `json:"total_lessons"`
	CompletedCount int             `json:"completed_count"`
}

type LessonDetailResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Content         string `json:"content,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
	VideoType       string `json:"video_type,omitempty"`
	VideoThumbnail  string `json:"video_thumbnail,omitempty"`
	OrderIndex      int    `json:"order_index"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	QuizID          string `json:"quiz_id,omitempty"`

	Completed          bool       `json:"completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
	Notes              string     `json:"notes"`
}

type SaveNotesRequest struct {
	Notes string `json:"notes" validate:"max=20000"`
}

func (r SaveNotesRequest) Validate() error {
	return validate.Struct(r)
}

type ProgressResponse struct {
	LessonID           string     `json:"lesson_id"`
	Completed          bool       `json:"completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
}
