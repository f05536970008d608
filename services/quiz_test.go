package services

import (
	"testing"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

func gradedQuiz() *model.Quiz {
	return &model.Quiz{
		ID:           "quiz-1",
		PassingScore: 83,
		Questions: []model.QuizQuestion{
			{
				ID:   "q1",
				Type: shared.QuestionTypeSingle,
				Options: []model.QuizOption{
					{ID: "q1a", IsCorrect: true},
					{ID: "q1b"},
					{ID: "q1c"},
				},
			},
			{
				ID:   "q2",
				Type: shared.QuestionTypeMultiple,
				Options: []model.QuizOption{
					{ID: "q2a", IsCorrect: true},
					{ID: "q2b", IsCorrect: true},
					{ID: "q2c"},
				},
			},
			{
				ID:   "q3",
				Type: shared.QuestionTypeSingle,
				Options: []model.QuizOption{
					{ID: "q3a"},
					{ID: "q3b", IsCorrect: true},
				},
			},
		},
	}
}

func TestGradeAttempt(t *testing.T) {
	tests := []struct {
		name        string
		answers     map[string][]string
		wantScore   int
		wantCorrect int
		wantPassed  bool
	}{
		{
			name: "all correct",
			answers: map[string][]string{
				"q1": {"q1a"},
				"q2": {"q2a", "q2b"},
				"q3": {"q3b"},
			},
			wantScore:   100,
			wantCorrect: 3,
			wantPassed:  true,
		},
		{
			name: "multiple choice order does not matter",
			answers: map[string][]string{
				"q1": {"q1a"},
				"q2": {"q2b", "q2a"},
				"q3": {"q3b"},
			},
			wantScore:   100,
			wantCorrect: 3,
			wantPassed:  true,
		},
		{
			name: "partial set on multiple choice fails the question",
			answers: map[string][]string{
				"q1": {"q1a"},
				"q2": {"q2a"},
				"q3": {"q3b"},
			},
			wantScore:   66,
			wantCorrect: 2,
			wantPassed:  false,
		},
		{
			name: "superset on multiple choice fails the question",
			answers: map[string][]string{
				"q1": {"q1a"},
				"q2": {"q2a", "q2b", "q2c"},
				"q3": {"q3b"},
			},
			wantScore:   66,
			wantCorrect: 2,
			wantPassed:  false,
		},
		{
			name: "unanswered question counts as wrong",
			answers: map[string][]string{
				"q1": {"q1a"},
				"q2": {"q2a", "q2b"},
			},
			wantScore:   66,
			wantCorrect: 2,
			wantPassed:  false,
		},
		{
			name:        "all wrong",
			answers:     map[string][]string{"q1": {"q1b"}, "q2": {"q2c"}, "q3": {"q3a"}},
			wantScore:   0,
			wantCorrect: 0,
			wantPassed:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, correct, total, passed := GradeAttempt(gradedQuiz(), tt.answers)
			if total != 3 {
				t.Fatalf("total = %d, want 3", total)
			}
			if score != tt.wantScore || correct != tt.wantCorrect || passed != tt.wantPassed {
				t.Errorf("GradeAttempt() = (score %d, correct %d, passed %v), want (score %d, correct %d, passed %v)",
					score, correct, passed, tt.wantScore, tt.wantCorrect, tt.wantPassed)
			}
		})
	}
}

func TestGradeAttemptScoreFloorAtThreshold(t *testing.T) {
	// Five correct of six floors to 83, which is exactly the pass mark.
	quiz := &model.Quiz{PassingScore: 83}
	answers := make(map[string][]string)
	for i := 0; i < 6; i++ {
		id := string(rune('a' + i))
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			ID:      id,
			Type:    shared.QuestionTypeSingle,
			Options: []model.QuizOption{{ID: id + "1", IsCorrect: true}, {ID: id + "2"}},
		})
		if i < 5 {
			answers[id] = []string{id + "1"}
		}
	}

	score, correct, total, passed := GradeAttempt(quiz, answers)
	if score != 83 || correct != 5 || total != 6 {
		t.Fatalf("GradeAttempt() = (score %d, correct %d, total %d)", score, correct, total)
	}
	if !passed {
		t.Error("score 83 should pass at the default threshold")
	}
}

func TestGradeAttemptEmptyQuiz(t *testing.T) {
	score, correct, total, passed := GradeAttempt(&model.Quiz{PassingScore: 83}, nil)
	if score != 0 || correct != 0 || total != 0 || passed {
		t.Errorf("empty quiz graded (score %d, correct %d, total %d, passed %v), want all zero",
			score, correct, total, passed)
	}
}

func TestSameIDSet(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{"equal sets", []string{"x", "y"}, []string{"y", "x"}, true},
		{"single match", []string{"x"}, []string{"x"}, true},
		{"different members", []string{"x", "y"}, []string{"x", "z"}, false},
		{"subset", []string{"x", "y"}, []string{"x"}, false},
		{"superset", []string{"x"}, []string{"x", "y"}, false},
		{"no correct answers never matches", nil, nil, false},
		{"empty selection", []string{"x"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameIDSet(tt.a, tt.b); got != tt.want {
				t.Errorf("sameIDSet(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
