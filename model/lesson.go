package model

import "time"

// Lesson is one ordered unit of the catalog. order_index is a total
// order with no contiguity requirement; only published lessons are
// visible to students.
type Lesson struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Content     string `json:"content" gorm:"type:text"`

	VideoURL       string `json:"video_url"`
	VideoType      string `json:"video_type"` // youtube, vimeo, bunny, direct
	VideoThumbnail string `json:"video_thumbnail"`

	OrderIndex      int    `json:"order_index" gorm:"uniqueIndex;not null"`
	Status          string `json:"status" gorm:"default:draft"` // draft, published, archived
	DurationMinutes int    `json:"duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress tracks one user against one lesson. The (user, lesson) pair
// is unique; writes go through an upsert so no duplicate rows can
// appear under concurrent saves.
type Progress struct {
	ID                 string     `json:"id" gorm:"primaryKey"`
	UserID             string     `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	LessonID           string     `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	Completed          bool       `json:"completed" gorm:"default:false"`
	CompletedAt        *time.Time `json:"completed_at"`
	ProgressPercentage int        `json:"progress_percentage" gorm:"default:0"`
	Notes              string     `json:"notes" gorm:"type:text"`
	LastAccessed       *time.Time `json:"last_accessed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
