package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

// newTestDatabaseService opens a throwaway in-memory database with the
// full schema migrated. Each call gets its own database, so tests can
// run in parallel without sharing rows.
func newTestDatabaseService(t *testing.T) *DatabaseService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
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
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &DatabaseService{db: db}
}

func createTestLesson(t *testing.T, dbSvc *DatabaseService, title string) *model.Lesson {
	t.Helper()

	lesson := &model.Lesson{
		Title:  title,
		Status: shared.LessonStatusPublished,
	}
	if err := dbSvc.CreateLesson(lesson); err != nil {
		t.Fatalf("CreateLesson(%q) error = %v", title, err)
	}
	return lesson
}

func TestCreateLessonAppendsToOrdering(t *testing.T) {
	dbSvc := newTestDatabaseService(t)

	titles := []string{"Intro", "Search basics", "Advanced prompts"}
	for i, title := range titles {
		lesson := createTestLesson(t, dbSvc, title)
		if lesson.OrderIndex != i+1 {
			t.Errorf("lesson %q order = %d, want %d", title, lesson.OrderIndex, i+1)
		}
	}
}

func TestSwapLessonOrderRoundTrip(t *testing.T) {
	dbSvc := newTestDatabaseService(t)

	a := createTestLesson(t, dbSvc, "Intro")
	b := createTestLesson(t, dbSvc, "Search basics")
	c := createTestLesson(t, dbSvc, "Advanced prompts")

	if err := dbSvc.SwapLessonOrder(a.ID, c.ID); err != nil {
		t.Fatalf("SwapLessonOrder() error = %v", err)
	}

	assertOrdering := func(wantIDs []string) {
		t.Helper()
		lessons, err := dbSvc.ListAllLessons()
		if err != nil {
			t.Fatalf("ListAllLessons() error = %v", err)
		}
		if len(lessons) != len(wantIDs) {
			t.Fatalf("got %d lessons, want %d", len(lessons), len(wantIDs))
		}
		seen := make(map[int]bool)
		for i, lesson := range lessons {
			if lesson.ID != wantIDs[i] {
				t.Errorf("position %d holds %q, want %q", i, lesson.Title, wantIDs[i])
			}
			if seen[lesson.OrderIndex] {
				t.Errorf("duplicate order_index %d after swap", lesson.OrderIndex)
			}
			seen[lesson.OrderIndex] = true
		}
	}

	assertOrdering([]string{c.ID, b.ID, a.ID})

	// Swapping back restores the original ordering.
	if err := dbSvc.SwapLessonOrder(a.ID, c.ID); err != nil {
		t.Fatalf("SwapLessonOrder() second swap error = %v", err)
	}
	assertOrdering([]string{a.ID, b.ID, c.ID})
}

func TestSwapLessonOrderUnknownLesson(t *testing.T) {
	dbSvc := newTestDatabaseService(t)
	a := createTestLesson(t, dbSvc, "Intro")

	err := dbSvc.SwapLessonOrder(a.ID, "no-such-lesson")
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 404 {
		t.Fatalf("SwapLessonOrder() error = %v, want 404 AppError", err)
	}

	lessons, err := dbSvc.ListAllLessons()
	if err != nil {
		t.Fatalf("ListAllLessons() error = %v", err)
	}
	if lessons[0].OrderIndex != a.OrderIndex {
		t.Error("failed swap moved the surviving lesson")
	}
}
