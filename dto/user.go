package dto

import "time"

type UserResponse struct {
	ID                     string     `json:"id"`
	Email                  string     `json:"email"`
	Username               string     `json:"username"`
	FullName               string     `json:"full_name,omitempty"`
	Role                   string     `json:"role"`
	EmailVerified          bool       `json:"email_verified"`
	HasPerplexityPro       bool       `json:"has_perplexity_pro"`
	PerplexityProExpiresAt *time.Time `json:"perplexity_pro_expires_at,omitempty"`
	TelegramUsername       string     `json:"telegram_username,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName         *string `json:"full_name" validate:"omitempty,max=100"`
	TelegramUsername *string `json:"telegram_username" validate:"omitempty,max=64"`
}

func (r UpdateProfileRequest) Validate() error {
	return validate.Struct(r)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

func (r ChangePasswordRequest) Validate() error {
	return validate.Struct(r)
}

type SessionResponse struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	LastUsed  time.Time `json:"last_used"`
	CreatedAt time.Time `json:"created_at"`
	Current   bool      `json:"current"`
}
