package services

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

func (svc *DatabaseService) CreatePromoCode(promo *model.PromoCode) error {
	if promo.ID == "" {
		promo.ID = uuid.NewString()
	}
	return svc.HandleError(svc.db.Create(promo).Error)
}

func (svc *DatabaseService) GetPromoCodeByUserID(userID string) (*model.PromoCode, error) {
	var promo model.PromoCode
	if err := svc.db.Where("user_id = ?", userID).First(&promo).Error; err != nil {
		return nil, svc.HandleError(err)
	}
	return &promo, nil
}

func (svc *DatabaseService) GetPromoCodeByID(id string) (*model.PromoCode, error) {
	var promo model.PromoCode
	if err := svc.db.Where("id = ?", id).First(&promo).Error; err != nil {
		return nil, svc.HandleError(err)
	}
	return &promo, nil
}

// ListPromoCodesWithUsers pages through all codes joined with the
// owning user's email for the admin promo view.
func (svc *DatabaseService) ListPromoCodesWithUsers(limit, offset int) ([]dto.AdminPromoCodeRow, int64, error) {
	var total int64
	if err := svc.db.Model(&model.PromoCode{}).Count(&total).Error; err != nil {
		return nil, 0, svc.HandleError(err)
	}

	var rows []dto.AdminPromoCodeRow
	err := svc.db.Model(&model.PromoCode{}).
		Select("promo_codes.*, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = promo_codes.user_id").
		Order("promo_codes.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, svc.HandleError(err)
	}
	return rows, total, nil
}

func (svc *DatabaseService) ExpirePromoCode(id string) error {
	return svc.HandleError(svc.db.Model(&model.PromoCode{}).
		Where("id = ?", id).
		Update("status", shared.PromoStatusExpired).Error)
}

func (svc *DatabaseService) ActivatePromoCode(id, perplexityEmail string, activatedAt time.Time) error {
	return svc.HandleError(svc.db.Model(&model.PromoCode{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":                   shared.PromoStatusActivated,
			"perplexity_account_email": perplexityEmail,
			"activated_at":             activatedAt,
		}).Error)
}

// promoCodeAlphabet skips characters that are easy to misread.
const promoCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewPromoCodeValue produces a readable code like PPLX-7F3A9C2B.
func NewPromoCodeValue() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate promo code: %w", err)
	}
	for i := range buf {
		buf[i] = promoCodeAlphabet[int(buf[i])%len(promoCodeAlphabet)]
	}

	return "PPLX-" + string(buf), nil
}
