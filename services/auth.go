package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

// AuthService owns registration, sessions and the auth middleware.
// Every new account also gets a pending Perplexity Pro promo code so
// the activation flow never has to mint one lazily.
type AuthService struct {
	context.DefaultService

	dbSvc    *DatabaseService
	jwtSvc   *JWTService
	emailSvc *EmailService

	promoValidity time.Duration
	stopCleanup   chan struct{}
}

const sessionCleanupInterval = time.Hour

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	svc.promoValidity = 365 * 24 * time.Hour
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)

	svc.stopCleanup = make(chan struct{})
	go svc.sessionCleanupLoop()
	return nil
}

func (svc *AuthService) Shutdown() {
	if svc.stopCleanup != nil {
		close(svc.stopCleanup)
	}
}

// sessionCleanupLoop prunes expired and revoked sessions hourly so the
// sessions table stays bounded.
func (svc *AuthService) sessionCleanupLoop() {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := svc.dbSvc.DeleteExpiredSessions()
			if err != nil {
				logrus.WithError(err).Error("Session cleanup failed")
				continue
			}
			if removed > 0 {
				logrus.WithField("removed", removed).Info("Pruned expired sessions")
			}
		case <-svc.stopCleanup:
			return
		}
	}
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return nil, err
	}
	codeExpiry := time.Now().Add(24 * time.Hour)

	user := &model.User{
		ID:                     uuid.NewString(),
		Email:                  req.Email,
		Username:               req.Username,
		Password:               string(hashed),
		FullName:               req.FullName,
		VerificationCode:       code,
		VerificationCodeExpiry: &codeExpiry,
		IsActive:               true,
	}

	if err := svc.dbSvc.CreateUser(user); err != nil {
		if appErr, ok := shared.GetAppError(err); ok && appErr.StatusCode == fiber.StatusConflict {
			return nil, shared.NewConflictError(err, "Email or username already registered")
		}
		return nil, err
	}

	if err := svc.dbSvc.SetUserRole(user.ID, shared.RoleStudent); err != nil {
		return nil, err
	}

	if err := svc.createPendingPromo(user.ID); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to create promo code")
	}

	go func() {
		if err := svc.emailSvc.SendVerificationEmail(user.Email, user.Username, code); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to send verification email")
		}
	}()

	return &dto.RegisterResponse{
		UserID:  user.ID,
		Email:   user.Email,
		Message: "Registration successful. Check your email for the verification code.",
	}, nil
}

func (svc *AuthService) createPendingPromo(userID string) error {
	code, err := NewPromoCodeValue()
	if err != nil {
		return err
	}

	return svc.dbSvc.CreatePromoCode(&model.PromoCode{
		ID:        uuid.NewString(),
		Code:      code,
		UserID:    userID,
		Status:    shared.PromoStatusPending,
		ExpiresAt: time.Now().Add(svc.promoValidity),
	})
}

func (svc *AuthService) VerifyEmail(email, code string) error {
	user, err := svc.dbSvc.GetUserByEmail(email)
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid email or code")
	}

	if user.EmailVerified {
		return nil
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return shared.NewBadRequestError(nil, "Invalid email or code")
	}
	if user.VerificationCodeExpiry != nil && time.Now().After(*user.VerificationCodeExpiry) {
		return shared.NewBadRequestError(nil, "Verification code has expired")
	}

	return svc.dbSvc.UpdateUserFields(user.ID, map[string]interface{}{
		"email_verified":           true,
		"verification_code":        "",
		"verification_code_expiry": nil,
	})
}

func (svc *AuthService) ResendVerificationEmail(email string) error {
	user, err := svc.dbSvc.GetUserByEmail(email)
	if err != nil {
		// Don't reveal whether the address is registered.
		return nil
	}
	if user.EmailVerified {
		return nil
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}
	codeExpiry := time.Now().Add(24 * time.Hour)

	err = svc.dbSvc.UpdateUserFields(user.ID, map[string]interface{}{
		"verification_code":        code,
		"verification_code_expiry": codeExpiry,
	})
	if err != nil {
		return err
	}

	return svc.emailSvc.SendVerificationEmail(user.Email, user.Username, code)
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	user, err := svc.dbSvc.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	if !user.IsActive {
		return nil, shared.NewForbiddenError(nil, "Account is disabled")
	}

	resp, err := svc.openSession(user, req.DeviceID, clientIP, userAgent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := svc.dbSvc.UpdateUserFields(user.ID, map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": clientIP,
	}); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}

	return resp, nil
}

func (svc *AuthService) openSession(user *model.User, deviceID, clientIP, userAgent string) (*dto.LoginResponse, error) {
	sessionID := uuid.NewString()

	accessToken, expiresAt, err := svc.jwtSvc.GenerateAccessToken(user.ID, sessionID)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := svc.jwtSvc.GenerateRefreshToken(user.ID, sessionID)
	if err != nil {
		return nil, err
	}

	session := &model.UserSession{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		DeviceID:  deviceID,
		IP:        clientIP,
		UserAgent: userAgent,
		IsActive:  true,
		LastUsed:  time.Now(),
		ExpiresAt: refreshExpiry,
	}
	if err := svc.dbSvc.CreateSession(session); err != nil {
		return nil, err
	}

	role, err := svc.dbSvc.GetUserRole(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         toUserResponse(user, role),
	}, nil
}

func (svc *AuthService) RefreshToken(req dto.RefreshTokenRequest, clientIP, userAgent string) (*dto.RefreshTokenResponse, error) {
	claims, err := svc.jwtSvc.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid refresh token")
	}

	session, err := svc.dbSvc.GetActiveSessionByTokenHash(hashToken(req.RefreshToken))
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Session expired or revoked")
	}
	if session.UserID != claims.UserID {
		return nil, shared.NewUnauthorizedError(nil, "Session expired or revoked")
	}

	accessToken, expiresAt, err := svc.jwtSvc.GenerateAccessToken(session.UserID, session.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := svc.jwtSvc.GenerateRefreshToken(session.UserID, session.ID)
	if err != nil {
		return nil, err
	}

	// Rotate the stored hash so the old refresh token dies here.
	err = svc.dbSvc.Db().Model(&model.UserSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"token_hash": hashToken(refreshToken),
			"ip":         clientIP,
			"user_agent": userAgent,
			"last_used":  time.Now(),
			"expires_at": refreshExpiry,
		}).Error
	if err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (svc *AuthService) Logout(userID, sessionID string) error {
	session, err := svc.dbSvc.GetActiveSessionByID(sessionID)
	if err != nil {
		return nil
	}
	if session.UserID != userID {
		return shared.NewForbiddenError(nil, "Session does not belong to user")
	}
	return svc.dbSvc.DeactivateSession(sessionID)
}

func (svc *AuthService) LogoutAllDevices(userID string) error {
	return svc.dbSvc.DeactivateUserSessions(userID)
}

func (svc *AuthService) ForgotPassword(email string) error {
	user, err := svc.dbSvc.GetUserByEmail(email)
	if err != nil {
		// Don't reveal whether the address is registered.
		return nil
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}
	codeExpiry := time.Now().Add(time.Hour)

	err = svc.dbSvc.UpdateUserFields(user.ID, map[string]interface{}{
		"verification_code":        code,
		"verification_code_expiry": codeExpiry,
	})
	if err != nil {
		return err
	}

	return svc.emailSvc.SendPasswordResetEmail(user.Email, user.Username, code)
}

func (svc *AuthService) ResetPassword(req dto.ResetPasswordRequest) error {
	user, err := svc.dbSvc.GetUserByEmail(req.Email)
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid email or code")
	}

	if user.VerificationCode == "" || user.VerificationCode != req.Code {
		return shared.NewBadRequestError(nil, "Invalid email or code")
	}
	if user.VerificationCodeExpiry != nil && time.Now().After(*user.VerificationCodeExpiry) {
		return shared.NewBadRequestError(nil, "Reset code has expired")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = svc.dbSvc.UpdateUserFields(user.ID, map[string]interface{}{
		"password":                 string(hashed),
		"verification_code":        "",
		"verification_code_expiry": nil,
	})
	if err != nil {
		return err
	}

	// A password reset revokes every open session.
	return svc.dbSvc.DeactivateUserSessions(user.ID)
}

func (svc *AuthService) ChangePassword(userID string, req dto.ChangePasswordRequest) error {
	user, err := svc.dbSvc.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return shared.NewUnauthorizedError(err, "Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return svc.dbSvc.UpdateUserFields(userID, map[string]interface{}{"password": string(hashed)})
}

// RequiredAuth verifies the bearer token and checks the session is
// still alive, so a revoked session stops working before the access
// token expires.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseUnauthorized(c)
		}

		claims, err := svc.jwtSvc.VerifyAccessToken(token)
		if err != nil || claims.UserID == "" {
			return shared.ResponseUnauthorized(c)
		}

		session, err := svc.dbSvc.GetActiveSessionByID(claims.SessionID)
		if err != nil || session.UserID != claims.UserID {
			return shared.ResponseUnauthorized(c)
		}

		if err := svc.dbSvc.TouchSession(session.ID); err != nil {
			logrus.WithError(err).WithField("session_id", session.ID).Warn("Failed to touch session")
		}

		c.Locals(shared.UserID, claims.UserID)
		c.Locals(shared.SessionID, claims.SessionID)
		return c.Next()
	}
}

// RequireAdmin must run after RequiredAuth.
func (svc *AuthService) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(shared.UserID).(string)
		if userID == "" {
			return shared.ResponseUnauthorized(c)
		}

		role, err := svc.dbSvc.GetUserRole(userID)
		if err != nil {
			return err
		}
		if role != shared.RoleAdmin {
			return shared.ResponseForbidden(c)
		}

		return c.Next()
	}
}

func toUserResponse(user *model.User, role string) dto.UserResponse {
	return dto.UserResponse{
		ID:                     user.ID,
		Email:                  user.Email,
		Username:               user.Username,
		FullName:               user.FullName,
		Role:                   role,
		EmailVerified:          user.EmailVerified,
		HasPerplexityPro:       user.HasPerplexityPro,
		PerplexityProExpiresAt: user.PerplexityProExpiresAt,
		TelegramUsername:       user.TelegramUsername,
		CreatedAt:              user.CreatedAt,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateNumericCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", errors.New("failed to generate code")
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
