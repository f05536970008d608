package services

import "testing"

func TestPlanReorder(t *testing.T) {
	lessons := orderedLessons("a", "b", "c")

	tests := []struct {
		name         string
		lessonID     string
		direction    string
		wantNeighbor string
		wantOK       bool
	}{
		{"move middle up", "b", "up", "a", true},
		{"move middle down", "b", "down", "c", true},
		{"move last up", "c", "up", "b", true},
		{"move first down", "a", "down", "b", true},
		{"first up is a no-op", "a", "up", "", false},
		{"last down is a no-op", "c", "down", "", false},
		{"unknown lesson", "zz", "up", "", false},
		{"unknown direction", "b", "sideways", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			neighbor, ok := PlanReorder(lessons, tt.lessonID, tt.direction)
			if ok != tt.wantOK || neighbor != tt.wantNeighbor {
				t.Errorf("PlanReorder(%q, %q) = (%q, %v), want (%q, %v)",
					tt.lessonID, tt.direction, neighbor, ok, tt.wantNeighbor, tt.wantOK)
			}
		})
	}
}

func TestPlanReorderSingleLesson(t *testing.T) {
	lessons := orderedLessons("only")

	for _, direction := range []string{"up", "down"} {
		if _, ok := PlanReorder(lessons, "only", direction); ok {
			t.Errorf("single lesson moved %s, want no-op", direction)
		}
	}
}
