package services

import (
	"sort"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

type QuizService struct {
	context.DefaultService

	dbSvc *DatabaseService
}

const QUIZ_SVC = "quiz_svc"

func (svc QuizService) Id() string {
	return QUIZ_SVC
}

func (svc *QuizService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(*DatabaseService)
	return nil
}

// GetQuizForLesson strips correct flags before the quiz leaves the
// server.
func (svc *QuizService) GetQuizForLesson(lessonID string) (*dto.QuizResponse, error) {
	quiz, err := svc.dbSvc.GetQuizByLessonID(lessonID)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(quiz), nil
}

func toQuizResponse(quiz *model.Quiz) *dto.QuizResponse {
	resp := &dto.QuizResponse{
		ID:           quiz.ID,
		LessonID:     quiz.LessonID,
		Title:        quiz.Title,
		PassingScore: quiz.PassingScore,
		Questions:    make([]dto.QuizQuestion, 0, len(quiz.Questions)),
	}

	for _, q := range quiz.Questions {
		question := dto.QuizQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			OrderIndex: q.OrderIndex,
			Options:    make([]dto.QuizOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, dto.QuizOption{ID: o.ID, Text: o.Text})
		}
		resp.Questions = append(resp.Questions, question)
	}

	return resp
}

// GradeAttempt scores answers against the quiz. A single choice
// question needs its one correct option selected; a multiple choice
// question needs exactly the correct set, no more, no less. The score
// is the percentage of correct questions, rounded down.
func GradeAttempt(quiz *model.Quiz, answers map[string][]string) (score, correct, total int, passed bool) {
	total = len(quiz.Questions)
	if total == 0 {
		return 0, 0, 0, false
	}

	for _, q := range quiz.Questions {
		var want []string
		for _, o := range q.Options {
			if o.IsCorrect {
				want = append(want, o.ID)
			}
		}

		got := answers[q.ID]
		if sameIDSet(want, got) {
			correct++
		}
	}

	score = correct * 100 / total
	passed = score >= quiz.PassingScore
	return score, correct, total, passed
}

func sameIDSet(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func (svc *QuizService) Submit(userID, lessonID string, req dto.SubmitQuizRequest) (*dto.QuizResultResponse, error) {
	quiz, err := svc.dbSvc.GetQuizByLessonID(lessonID)
	if err != nil {
		return nil, err
	}

	for questionID := range req.Answers {
		if !quizHasQuestion(quiz, questionID) {
			return nil, shared.NewBadRequestError(nil, "Answer references an unknown question")
		}
	}

	score, correct, total, passed := GradeAttempt(quiz, req.Answers)

	rawAnswers, err := sonic.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		QuizID:  quiz.ID,
		UserID:  userID,
		Score:   score,
		Passed:  passed,
		Answers: rawAnswers,
	}
	if req.TimeTakenSeconds > 0 {
		attempt.TimeTakenSeconds = &req.TimeTakenSeconds
	}

	if err := svc.dbSvc.CreateQuizAttempt(attempt); err != nil {
		return nil, err
	}

	RecordQuizSubmission(passed)

	return &dto.QuizResultResponse{
		AttemptID:    attempt.ID,
		Score:        score,
		PassingScore: quiz.PassingScore,
		Passed:       passed,
		Correct:      correct,
		Total:        total,
		SubmittedAt:  attempt.CreatedAt,
	}, nil
}

func quizHasQuestion(quiz *model.Quiz, questionID string) bool {
	for _, q := range quiz.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

func (svc *QuizService) GetUserAttempts(userID, lessonID string) ([]dto.QuizAttemptResponse, error) {
	quiz, err := svc.dbSvc.GetQuizByLessonID(lessonID)
	if err != nil {
		return nil, err
	}

	attempts, err := svc.dbSvc.GetUserQuizAttempts(userID, quiz.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.QuizAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		item := dto.QuizAttemptResponse{
			ID:        a.ID,
			QuizID:    a.QuizID,
			Score:     a.Score,
			Passed:    a.Passed,
			CreatedAt: a.CreatedAt,
		}
		if a.TimeTakenSeconds != nil {
			item.TimeTakenSeconds = *a.TimeTakenSeconds
		}
		resp = append(resp, item)
	}
	return resp, nil
}
