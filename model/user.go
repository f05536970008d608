package model

import "time"

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"unique;not null"`
	Username string `json:"username" gorm:"unique;not null"`
	Password string `json:"-"`
	FullName string `json:"full_name"`

	EmailVerified          bool       `json:"email_verified" gorm:"default:false"`
	VerificationCode       string     `json:"-"`
	VerificationCodeExpiry *time.Time `json:"-"`

	// Perplexity Pro subscription state, flipped by promo activation.
	HasPerplexityPro       bool       `json:"has_perplexity_pro" gorm:"default:false"`
	PerplexityProExpiresAt *time.Time `json:"perplexity_pro_expires_at"`

	TelegramID       *int64 `json:"telegram_id"`
	TelegramUsername string `json:"telegram_username"`

	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-" gorm:"index"`
}

// UserRole grants a capability to a user. Admin capability is the
// presence of an "admin" row; absence means student.
type UserRole struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"not null;index"`
	Role   string `json:"role" gorm:"not null"` // student, admin

	CreatedAt time.Time `json:"created_at"`
}

type UserSession struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index"`
	TokenHash string    `json:"-" gorm:"index"`
	DeviceID  string    `json:"device_id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	LastUsed  time.Time `json:"last_used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
