package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

// DatabaseService owns the gorm connection and all persistence for the
// platform. The driver is chosen by DB_DRIVER (postgres or sqlite);
// sqlite keeps local development and tests dependency free.
type DatabaseService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string
}

const DATABASE_SVC = "database_svc"

// Id returns Service ID
func (svc DatabaseService) Id() string {
	return DATABASE_SVC
}

// Db Access to raw database handle
func (svc DatabaseService) Db() *gorm.DB {
	return svc.db
}

// Configure the service
func (svc *DatabaseService) Configure(ctx *context.Context) error {
	svc.driver = os.Getenv("DB_DRIVER")
	if svc.driver == "" {
		svc.driver = "sqlite"
	}
	svc.database = os.Getenv("DB_DATABASE")
	if svc.database == "" && svc.driver == "sqlite" {
		svc.database = "perplexity_school.db"
	}

	return svc.DefaultService.Configure(ctx)
}

// Start opens the connection and migrates any tables that have changed
// since last runtime.
func (svc *DatabaseService) Start() (err error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	switch svc.driver {
	case "postgres":
		svc.db, err = gorm.Open(postgres.Open(svc.postgresDSN()), gormCfg)
	case "sqlite":
		svc.db, err = gorm.Open(sqlite.Open(svc.database), gormCfg)
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", svc.driver)
	}
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.User{},
		&model.UserRole{},
		&model.UserSession{},
		&model.Lesson{},
		&model.Progress{},
		&model.PromoCode{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizOption{},
		&model.QuizAttempt{},
	}

	err = svc.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (svc *DatabaseService) Shutdown() {
}

func (svc *DatabaseService) postgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_DATABASE", "perplexity_school"),
		envOr("DB_PORT", "5432"),
		envOr("DB_SSLMODE", "disable"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// HandleError classifies database errors into transport level AppErrors
// so handlers never inspect gorm errors directly.
func (svc *DatabaseService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key value") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "no such table") {
			statusCode = http.StatusInternalServerError
			errorType = "SCHEMA_ERROR"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return shared.NewAppError(statusCode, err, errorType)
}
