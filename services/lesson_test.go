package services

import (
	"testing"

	"github.com/perplexity-school/api/model"
)

func orderedLessons(ids ...string) []model.Lesson {
	lessons := make([]model.Lesson, len(ids))
	for i, id := range ids {
		lessons[i] = model.Lesson{ID: id, OrderIndex: i + 1}
	}
	return lessons
}

func TestComputeUnlocks(t *testing.T) {
	lessons := orderedLessons("a", "b", "c", "d")

	tests := []struct {
		name      string
		completed map[string]bool
		want      []bool
	}{
		{
			name:      "nothing completed",
			completed: map[string]bool{},
			want:      []bool{true, false, false, false},
		},
		{
			name:      "first completed unlocks second",
			completed: map[string]bool{"a": true},
			want:      []bool{true, true, false, false},
		},
		{
			name:      "chain of completions",
			completed: map[string]bool{"a": true, "b": true, "c": true},
			want:      []bool{true, true, true, true},
		},
		{
			name:      "gap in the middle leaves later lessons locked",
			completed: map[string]bool{"a": true, "c": true},
			want:      []bool{true, true, false, true},
		},
		{
			name:      "completing later lessons never locks earlier ones",
			completed: map[string]bool{"c": true},
			want:      []bool{true, false, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeUnlocks(lessons, tt.completed)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d flags, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("lesson %q: unlocked = %v, want %v", lessons[i].ID, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestComputeUnlocksEmptyCatalog(t *testing.T) {
	got := ComputeUnlocks(nil, map[string]bool{"a": true})
	if len(got) != 0 {
		t.Fatalf("expected no flags for empty catalog, got %v", got)
	}
}

func TestIsLessonUnlocked(t *testing.T) {
	lessons := orderedLessons("a", "b", "c")
	completed := map[string]bool{"a": true}

	tests := []struct {
		name     string
		lessonID string
		want     bool
	}{
		{"first lesson always unlocked", "a", true},
		{"next lesson after completion", "b", true},
		{"lesson beyond progress", "c", false},
		{"unknown lesson is locked", "zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLessonUnlocked(lessons, completed, tt.lessonID); got != tt.want {
				t.Errorf("IsLessonUnlocked(%q) = %v, want %v", tt.lessonID, got, tt.want)
			}
		})
	}
}
