package model

import "time"

// PromoCode is a per-user single-use code for the Perplexity Pro
// subscription. Activation is a one-way pending -> activated
// transition that also flips the user's subscription flag.
type PromoCode struct {
	ID     string `json:"id" gorm:"primaryKey"`
	Code   string `json:"code" gorm:"unique;not null"`
	UserID string `json:"user_id" gorm:"not null;uniqueIndex"`
	Status string `json:"status" gorm:"default:pending"` // pending, activated, expired

	PerplexityAccountEmail string     `json:"perplexity_account_email"`
	ActivatedAt            *time.Time `json:"activated_at"`
	ExpiresAt              time.Time  `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}
