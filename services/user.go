package services

import (
	"github.com/alphabatem/common/context"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/shared"
)

type UserService struct {
	context.DefaultService

	dbSvc *DatabaseService
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	return nil
}

func (svc *UserService) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := svc.dbSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	role, err := svc.dbSvc.GetUserRole(userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user, role)
	return &resp, nil
}

func (svc *UserService) UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.TelegramUsername != nil {
		fields["telegram_username"] = *req.TelegramUsername
	}

	if len(fields) > 0 {
		if err := svc.dbSvc.UpdateUserFields(userID, fields); err != nil {
			return nil, err
		}
	}

	return svc.GetProfile(userID)
}

func (svc *UserService) GetSessions(userID, currentSessionID string) ([]dto.SessionResponse, error) {
	sessions, err := svc.dbSvc.GetUserSessions(userID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, dto.SessionResponse{
			ID:        s.ID,
			DeviceID:  s.DeviceID,
			IPAddress: s.IP,
			UserAgent: s.UserAgent,
			LastUsed:  s.LastUsed,
			CreatedAt: s.CreatedAt,
			Current:   s.ID == currentSessionID,
		})
	}
	return resp, nil
}

func (svc *UserService) RevokeSession(userID, sessionID string) error {
	session, err := svc.dbSvc.GetActiveSessionByID(sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return shared.NewForbiddenError(nil, "Session does not belong to user")
	}
	return svc.dbSvc.DeactivateSession(sessionID)
}
