package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

func (svc *DatabaseService) CreateUser(user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return svc.HandleError(svc.db.Create(user).Error)
}

func (svc *DatabaseService) GetUserByID(id string) (*model.User, error) {
	var user model.User
	if err := svc.db.Where("id = ? AND deleted_at IS NULL", id).First(&user).Error; err != nil {
		return nil, svc.HandleError(err)
	}
	return &user, nil
}

func (svc *DatabaseService) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := svc.db.Where("email = ? AND deleted_at IS NULL", email).First(&user).Error; err != nil {
		return nil, svc.HandleError(err)
	}
	return &user, nil
}

// GetUserByEmailOrUsername resolves the login identifier; the client
// does not tell us which one it holds.
func (svc *DatabaseService) GetUserByEmailOrUsername(identifier string) (*model.User, error) {
	var user model.User
	err := svc.db.
		Where("(email = ? OR username = ?) AND deleted_at IS NULL", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return &user, nil
}

func (svc *DatabaseService) UpdateUser(user *model.User) error {
	return svc.HandleError(svc.db.Save(user).Error)
}

func (svc *DatabaseService) UpdateUserFields(userID string, fields map[string]interface{}) error {
	return svc.HandleError(svc.db.Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error)
}

func (svc *DatabaseService) GetUserRole(userID string) (string, error) {
	var role model.UserRole
	err := svc.db.Where("user_id = ?", userID).Order("created_at DESC").First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return shared.RoleStudent, nil
		}
		return "", svc.HandleError(err)
	}
	return role.Role, nil
}

func (svc *DatabaseService) SetUserRole(userID, role string) error {
	return svc.HandleError(svc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserRole{
			ID:     uuid.NewString(),
			UserID: userID,
			Role:   role,
		}).Error
	}))
}

func (svc *DatabaseService) CreateSession(session *model.UserSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	return svc.HandleError(svc.db.Create(session).Error)
}

func (svc *DatabaseService) GetActiveSessionByTokenHash(tokenHash string) (*model.UserSession, error) {
	var session model.UserSession
	err := svc.db.
		Where("token_hash = ? AND is_active = ? AND expires_at > ?", tokenHash, true, time.Now()).
		First(&session).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return &session, nil
}

func (svc *DatabaseService) GetActiveSessionByID(id string) (*model.UserSession, error) {
	var session model.UserSession
	err := svc.db.
		Where("id = ? AND is_active = ? AND expires_at > ?", id, true, time.Now()).
		First(&session).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return &session, nil
}

func (svc *DatabaseService) TouchSession(id string) error {
	return svc.HandleError(svc.db.Model(&model.UserSession{}).
		Where("id = ?", id).
		Update("last_used", time.Now()).Error)
}

func (svc *DatabaseService) DeactivateSession(id string) error {
	return svc.HandleError(svc.db.Model(&model.UserSession{}).
		Where("id = ?", id).
		Update("is_active", false).Error)
}

func (svc *DatabaseService) DeactivateUserSessions(userID string) error {
	return svc.HandleError(svc.db.Model(&model.UserSession{}).
		Where("user_id = ?", userID).
		Update("is_active", false).Error)
}

// DeleteExpiredSessions removes sessions that are past their expiry or
// were deactivated. Returns the number of rows removed.
func (svc *DatabaseService) DeleteExpiredSessions() (int64, error) {
	res := svc.db.
		Where("expires_at < ? OR is_active = ?", time.Now(), false).
		Delete(&model.UserSession{})
	if res.Error != nil {
		return 0, svc.HandleError(res.Error)
	}
	return res.RowsAffected, nil
}

func (svc *DatabaseService) GetUserSessions(userID string) ([]model.UserSession, error) {
	var sessions []model.UserSession
	err := svc.db.
		Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, time.Now()).
		Order("last_used DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return sessions, nil
}

// ListUsersWithStats joins each user with their role, promo status and
// learning aggregates for the admin user list. Pagination is offset
// based; search matches email, username or full name.
func (svc *DatabaseService) ListUsersWithStats(search string, limit, offset int) ([]dto.AdminUserRow, int64, error) {
	base := svc.db.Model(&model.User{}).Where("users.deleted_at IS NULL")
	if search != "" {
		like := "%" + search + "%"
		base = base.Where("users.email LIKE ? OR users.username LIKE ? OR users.full_name LIKE ?", like, like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, svc.HandleError(err)
	}

	var rows []dto.AdminUserRow
	err := base.
		Select(`users.id, users.email, users.username, users.full_name,
			users.email_verified, users.is_active, users.has_perplexity_pro,
			users.last_login_at, users.created_at,
			COALESCE(roles.role, 'student') AS role,
			COALESCE(promo.status, '') AS promo_status,
			COALESCE(prog.completed_lessons, 0) AS completed_lessons,
			COALESCE(prog.avg_progress, 0) AS avg_progress,
			COALESCE(attempts.quiz_attempts, 0) AS quiz_attempts`).
		Joins(`LEFT JOIN user_roles roles ON roles.user_id = users.id`).
		Joins(`LEFT JOIN promo_codes promo ON promo.user_id = users.id`).
		Joins(`LEFT JOIN (
			SELECT user_id,
				SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completed_lessons,
				AVG(progress_percentage) AS avg_progress
			FROM progresses GROUP BY user_id
		) prog ON prog.user_id = users.id`).
		Joins(`LEFT JOIN (
			SELECT user_id, COUNT(*) AS quiz_attempts
			FROM quiz_attempts GROUP BY user_id
		) attempts ON attempts.user_id = users.id`).
		Order("users.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, svc.HandleError(err)
	}

	return rows, total, nil
}
