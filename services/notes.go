package services

import (
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/sirupsen/logrus"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

// NotesService coalesces lesson note saves. Each keystroke-level PUT
// only replaces the pending value; the row is written once the user
// has been quiet for the debounce window. Shutdown flushes whatever is
// still pending so no notes are lost on deploy.
type NotesService struct {
	context.DefaultService

	store notesStore

	mu      sync.Mutex
	pending map[noteKey]*pendingNote

	debounce time.Duration
}

// notesStore is the slice of DatabaseService the debouncer needs.
type notesStore interface {
	GetLesson(id string) (*model.Lesson, error)
	GetProgress(userID, lessonID string) (*model.Progress, error)
	UpsertNotes(userID, lessonID, notes string) error
}

type noteKey struct {
	userID   string
	lessonID string
}

type pendingNote struct {
	notes string
	timer *time.Timer
}

const NOTES_SVC = "notes_svc"

const notesDebounce = 1500 * time.Millisecond

func (svc *NotesService) Id() string {
	return NOTES_SVC
}

func (svc *NotesService) Configure(ctx *context.Context) error {
	svc.pending = make(map[noteKey]*pendingNote)
	svc.debounce = notesDebounce
	return svc.DefaultService.Configure(ctx)
}

func (svc *NotesService) Start() error {
	svc.store = svc.Service(DATABASE_SVC).(*DatabaseService)
	return nil
}

// Save schedules a write for the user's notes on a lesson. A save that
// arrives while another is pending replaces it and restarts the timer,
// so only the latest text ever reaches the database. Unknown or
// unpublished lessons are rejected before anything is scheduled, so a
// bad lesson id never mints a progress row.
func (svc *NotesService) Save(userID, lessonID, notes string) error {
	lesson, err := svc.store.GetLesson(lessonID)
	if err != nil {
		return err
	}
	if lesson.Status != shared.LessonStatusPublished {
		return shared.NewNotFoundError(nil, "Lesson not found")
	}

	key := noteKey{userID: userID, lessonID: lessonID}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if p, ok := svc.pending[key]; ok {
		p.notes = notes
		p.timer.Reset(svc.debounce)
		return nil
	}

	p := &pendingNote{notes: notes}
	p.timer = time.AfterFunc(svc.debounce, func() {
		svc.flush(key)
	})
	svc.pending[key] = p
	return nil
}

func (svc *NotesService) flush(key noteKey) {
	svc.mu.Lock()
	p, ok := svc.pending[key]
	if !ok {
		svc.mu.Unlock()
		return
	}
	delete(svc.pending, key)
	notes := p.notes
	svc.mu.Unlock()

	if err := svc.write(key, notes); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":   key.userID,
			"lesson_id": key.lessonID,
		}).Error("Failed to save notes")
	}
}

// write persists one note. Empty notes with no existing progress row
// write nothing, so browsing a lesson without typing leaves no trace.
func (svc *NotesService) write(key noteKey, notes string) error {
	if notes == "" {
		if _, err := svc.store.GetProgress(key.userID, key.lessonID); err != nil {
			return nil
		}
	}

	if err := svc.store.UpsertNotes(key.userID, key.lessonID, notes); err != nil {
		return err
	}
	RecordNotesWrite()
	return nil
}

// PendingCount reports how many notes are waiting on their timer.
func (svc *NotesService) PendingCount() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.pending)
}

func (svc *NotesService) Shutdown() {
	svc.mu.Lock()
	keys := make([]noteKey, 0, len(svc.pending))
	for key, p := range svc.pending {
		p.timer.Stop()
		keys = append(keys, key)
	}
	svc.mu.Unlock()

	for _, key := range keys {
		svc.flush(key)
	}
}
