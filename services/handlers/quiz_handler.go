package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/shared"
)

type QuizHandler struct {
	quizSvc QuizServiceInterface
}

func NewQuizHandler(quizSvc QuizServiceInterface) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// @Summary Get lesson quiz
// @Description Quiz questions without correctness flags
// @Tags quiz
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.QuizResponse}
// @Router /api/v1/lessons/{lessonId}/quiz [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	resp, err := h.quizSvc.GetQuizForLesson(lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Submit quiz answers
// @Tags quiz
// @Accept json
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Param body body dto.SubmitQuizRequest true "Answers keyed by question ID"
// @Success 200 {object} shared.Response{data=dto.QuizResultResponse}
// @Router /api/v1/lessons/{lessonId}/quiz/attempts [post]
func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.quizSvc.Submit(userID, lessonID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quiz graded", resp)
}

// @Summary List own quiz attempts
// @Tags quiz
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=[]dto.QuizAttemptResponse}
// @Router /api/v1/lessons/{lessonId}/quiz/attempts [get]
func (h *QuizHandler) GetAttempts(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	resp, err := h.quizSvc.GetUserAttempts(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
