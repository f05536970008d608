package dto

import "time"

type PromoCodeResponse struct {
	Code                   string     `json:"code"`
	Status                 string     `json:"status"`
	PerplexityAccountEmail string     `json:"perplexity_account_email,omitempty"`
	ActivatedAt            *time.Time `json:"activated_at,omitempty"`
	ExpiresAt              *time.Time `json:"expires_at,omitempty"`
}

type ActivatePromoRequest struct {
	PerplexityAccountEmail string `json:"perplexity_account_email" validate:"required,email"`
}

func (r ActivatePromoRequest) Validate() error {
	return validate.Struct(r)
}
