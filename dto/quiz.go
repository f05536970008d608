package dto

import "time"

type QuizResponse struct {
	ID           string         `json:"id"`
	LessonID     string         `json:"lesson_id"`
	Title        string         `json:"title"`
	PassingScore int            `json:"passing_score"`
	Questions    []QuizQuestion `json:"questions"`
}

// QuizQuestion deliberately omits correctness flags so answers never
// reach the client.
type QuizQuestion struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Type       string       `json:"type"`
	OrderIndex int          `json:"order_index"`
	Options    []QuizOption `json:"options"`
}

type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type SubmitQuizRequest struct {
	Answers          map[string][]string `json:"answers" validate:"required,min=1"`
	TimeTakenSeconds int                 `json:"time_taken_seconds" validate:"omitempty,gte=0"`
}

func (r SubmitQuizRequest) Validate() error {
	return validate.Struct(r)
}

type QuizResultResponse struct {
	AttemptID    string    `json:"attempt_id"`
	Score        int       `json:"score"`
	PassingScore int       `json:"passing_score"`
	Passed       bool      `json:"passed"`
	Correct      int       `json:"correct"`
	Total        int       `json:"total"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type QuizAttemptResponse struct {
	ID               string    `json:"id"`
	QuizID           string    `json:"quiz_id"`
	Score            int       `json:"score"`
	Passed           bool      `json:"passed"`
	TimeTakenSeconds int       `json:"time_taken_seconds,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
