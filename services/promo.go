package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/sirupsen/logrus"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

// PromoService handles the Perplexity Pro promo code lifecycle. Each
// user has at most one code, created at registration; activation is a
// one-way pending -> activated transition.
type PromoService struct {
	context.DefaultService

	dbSvc    *DatabaseService
	emailSvc *EmailService
}

const PROMO_SVC = "promo_svc"

func (svc PromoService) Id() string {
	return PROMO_SVC
}

func (svc *PromoService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	return nil
}

// CanActivate checks the state machine, not persistence. Activated and
// expired codes are terminal.
func CanActivate(promo *model.PromoCode, now time.Time) error {
	switch promo.Status {
	case shared.PromoStatusActivated:
		return shared.NewConflictError(nil, "Promo code is already activated")
	case shared.PromoStatusExpired:
		return shared.NewConflictError(nil, "Promo code has expired")
	}
	if !promo.ExpiresAt.IsZero() && now.After(promo.ExpiresAt) {
		return shared.NewConflictError(nil, "Promo code has expired")
	}
	return nil
}

func (svc *PromoService) GetUserPromo(userID string) (*dto.PromoCodeResponse, error) {
	promo, err := svc.dbSvc.GetPromoCodeByUserID(userID)
	if err != nil {
		return nil, err
	}
	return toPromoResponse(promo), nil
}

// Activate flips the code to activated, then marks the user as holding
// Perplexity Pro. The two writes are sequential rather than one
// transaction; if the second fails the code stays activated and the
// follow-up email still tells support which account to fix.
func (svc *PromoService) Activate(userID string, req dto.ActivatePromoRequest) (*dto.PromoCodeResponse, error) {
	promo, err := svc.dbSvc.GetPromoCodeByUserID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := CanActivate(promo, now); err != nil {
		return nil, err
	}

	if err := svc.dbSvc.ActivatePromoCode(promo.ID, req.PerplexityAccountEmail, now); err != nil {
		return nil, err
	}

	err = svc.dbSvc.UpdateUserFields(userID, map[string]interface{}{
		"has_perplexity_pro":        true,
		"perplexity_pro_expires_at": promo.ExpiresAt,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"code":    promo.Code,
		}).Error("Promo activated but user subscription flag not set")
	}

	RecordPromoActivation()

	promo.Status = shared.PromoStatusActivated
	promo.PerplexityAccountEmail = req.PerplexityAccountEmail
	promo.ActivatedAt = &now

	go svc.sendActivationEmail(userID, promo)

	return toPromoResponse(promo), nil
}

func (svc *PromoService) sendActivationEmail(userID string, promo *model.PromoCode) {
	user, err := svc.dbSvc.GetUserByID(userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Skipping promo activation email")
		return
	}

	err = svc.emailSvc.SendPromoActivatedEmail(
		user.Email,
		user.Username,
		promo.Code,
		promo.PerplexityAccountEmail,
		promo.ExpiresAt.Format("2 January 2006"),
	)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to send promo activation email")
	}
}

func toPromoResponse(promo *model.PromoCode) *dto.PromoCodeResponse {
	resp := &dto.PromoCodeResponse{
		Code:                   promo.Code,
		Status:                 promo.Status,
		PerplexityAccountEmail: promo.PerplexityAccountEmail,
		ActivatedAt:            promo.ActivatedAt,
	}
	if !promo.ExpiresAt.IsZero() {
		expires := promo.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}
