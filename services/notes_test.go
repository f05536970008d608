package services

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

type fakeNotesStore struct {
	mu      sync.Mutex
	lessons map[string]*model.Lesson
	rows    map[noteKey]string
	writes  []string
}

func newFakeNotesStore(lessonIDs ...string) *fakeNotesStore {
	f := &fakeNotesStore{
		lessons: make(map[string]*model.Lesson),
		rows:    make(map[noteKey]string),
	}
	for _, id := range lessonIDs {
		f.lessons[id] = &model.Lesson{ID: id, Status: shared.LessonStatusPublished}
	}
	return f
}

func (f *fakeNotesStore) GetLesson(id string) (*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lesson, ok := f.lessons[id]
	if !ok {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}
	return lesson, nil
}

func (f *fakeNotesStore) GetProgress(userID, lessonID string) (*model.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	notes, ok := f.rows[noteKey{userID: userID, lessonID: lessonID}]
	if !ok {
		return nil, shared.NewNotFoundError(nil, "Progress not found")
	}
	return &model.Progress{UserID: userID, LessonID: lessonID, Notes: notes}, nil
}

func (f *fakeNotesStore) UpsertNotes(userID, lessonID, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[noteKey{userID: userID, lessonID: lessonID}] = notes
	f.writes = append(f.writes, notes)
	return nil
}

func (f *fakeNotesStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeNotesStore) lastWrite() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return ""
	}
	return f.writes[len(f.writes)-1]
}

func newTestNotesService(store *fakeNotesStore, debounce time.Duration) *NotesService {
	return &NotesService{
		store:    store,
		pending:  make(map[noteKey]*pendingNote),
		debounce: debounce,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNotesSaveWritesAfterQuietPeriod(t *testing.T) {
	store := newFakeNotesStore("lesson-1")
	svc := newTestNotesService(store, 20*time.Millisecond)

	if err := svc.Save("user-1", "lesson-1", "first draft"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if svc.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d, want 1", svc.PendingCount())
	}
	if store.writeCount() != 0 {
		t.Fatal("wrote before the quiet period elapsed")
	}

	waitFor(t, func() bool { return store.writeCount() == 1 })

	if got := store.lastWrite(); got != "first draft" {
		t.Errorf("wrote %q, want %q", got, "first draft")
	}
	if svc.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after flush, want 0", svc.PendingCount())
	}
}

func TestNotesSaveRejectsUnknownLesson(t *testing.T) {
	store := newFakeNotesStore("lesson-1")
	svc := newTestNotesService(store, time.Millisecond)

	err := svc.Save("user-1", "no-such-lesson", "hello")
	if err == nil {
		t.Fatal("Save() accepted an unknown lesson id")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("Save() error = %v, want 404 AppError", err)
	}

	if svc.PendingCount() != 0 {
		t.Error("a write was scheduled for an unknown lesson")
	}
	time.Sleep(20 * time.Millisecond)
	if store.writeCount() != 0 {
		t.Error("a progress row was written for an unknown lesson")
	}
}

func TestNotesSaveRejectsUnpublishedLesson(t *testing.T) {
	store := newFakeNotesStore()
	store.lessons["draft-1"] = &model.Lesson{ID: "draft-1", Status: shared.LessonStatusDraft}
	svc := newTestNotesService(store, time.Millisecond)

	err := svc.Save("user-1", "draft-1", "hello")
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("Save() error = %v, want 404 AppError", err)
	}
	if svc.PendingCount() != 0 {
		t.Error("a write was scheduled for an unpublished lesson")
	}
}

func TestNotesSaveCoalescesRapidSaves(t *testing.T) {
	store := newFakeNotesStore("lesson-1")
	svc := newTestNotesService(store, 30*time.Millisecond)

	for _, draft := range []string{"a", "ab", "abc", "abcd"} {
		if err := svc.Save("user-1", "lesson-1", draft); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, func() bool { return store.writeCount() > 0 })

	if n := store.writeCount(); n != 1 {
		t.Errorf("writeCount = %d, want rapid saves coalesced into 1", n)
	}
	if got := store.lastWrite(); got != "abcd" {
		t.Errorf("wrote %q, want the latest draft %q", got, "abcd")
	}
}

func TestNotesSaveTracksLessonsIndependently(t *testing.T) {
	store := newFakeNotesStore("lesson-1", "lesson-2")
	svc := newTestNotesService(store, 20*time.Millisecond)

	_ = svc.Save("user-1", "lesson-1", "notes one")
	_ = svc.Save("user-1", "lesson-2", "notes two")
	_ = svc.Save("user-2", "lesson-1", "notes three")

	if svc.PendingCount() != 3 {
		t.Fatalf("PendingCount() = %d, want 3", svc.PendingCount())
	}

	waitFor(t, func() bool { return store.writeCount() == 3 })

	if got := store.rows[noteKey{userID: "user-1", lessonID: "lesson-2"}]; got != "notes two" {
		t.Errorf("lesson-2 notes = %q, want %q", got, "notes two")
	}
}

func TestNotesEmptySaveWithoutRowWritesNothing(t *testing.T) {
	store := newFakeNotesStore("lesson-1")
	svc := newTestNotesService(store, 5*time.Millisecond)

	if err := svc.Save("user-1", "lesson-1", ""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	waitFor(t, func() bool { return svc.PendingCount() == 0 })
	time.Sleep(10 * time.Millisecond)

	if store.writeCount() != 0 {
		t.Error("empty note created a progress row")
	}
}

func TestNotesEmptySaveClearsExistingRow(t *testing.T) {
	store := newFakeNotesStore("lesson-1")
	store.rows[noteKey{userID: "user-1", lessonID: "lesson-1"}] = "old text"
	svc := newTestNotesService(store, 5*time.Millisecond)

	if err := svc.Save("user-1", "lesson-1", ""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	waitFor(t, func() bool { return store.writeCount() == 1 })

	if got := store.rows[noteKey{userID: "user-1", lessonID: "lesson-1"}]; got != "" {
		t.Errorf("notes = %q, want cleared", got)
	}
}

func TestNotesShutdownFlushesPending(t *testing.T) {
	store := newFakeNotesStore("lesson-1", "lesson-2")
	svc := newTestNotesService(store, time.Hour)

	_ = svc.Save("user-1", "lesson-1", "about to deploy")
	_ = svc.Save("user-1", "lesson-2", "also pending")

	svc.Shutdown()

	if n := store.writeCount(); n != 2 {
		t.Fatalf("writeCount after Shutdown = %d, want 2", n)
	}
	if svc.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after Shutdown, want 0", svc.PendingCount())
	}
}
