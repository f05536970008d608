package seeders

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/services"
	"github.com/perplexity-school/api/shared"
)

// AdminSeeder creates the initial admin account
type AdminSeeder struct {
	db *gorm.DB
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

func (s *AdminSeeder) SeedAdmin() error {
	var existing model.UserRole
	if err := s.db.Where("role = ?", shared.RoleAdmin).First(&existing).Error; err == nil {
		log.Println("Admin user already exists, skipping admin seeding")
		return nil
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@perplexityschool.com"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		ID:            uuid.NewString(),
		Email:         email,
		Username:      "admin",
		Password:      string(hashed),
		FullName:      "Administrator",
		EmailVerified: true,
		IsActive:      true,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.UserRole{
			ID:     uuid.NewString(),
			UserID: admin.ID,
			Role:   shared.RoleAdmin,
		}).Error; err != nil {
			return err
		}

		code, err := services.NewPromoCodeValue()
		if err != nil {
			return err
		}
		if err := tx.Create(&model.PromoCode{
			ID:        uuid.NewString(),
			Code:      code,
			UserID:    admin.ID,
			Status:    shared.PromoStatusPending,
			ExpiresAt: time.Now().Add(365 * 24 * time.Hour),
		}).Error; err != nil {
			return err
		}

		log.Printf("Created admin user: %s", admin.Email)
		return nil
	})
}
