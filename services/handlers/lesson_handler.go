package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/shared"
)

type LessonHandler struct {
	lessonSvc LessonServiceInterface
	notesSvc  NotesServiceInterface
	mediaSvc  MediaServiceInterface
}

func NewLessonHandler(lessonSvc LessonServiceInterface, notesSvc NotesServiceInterface, mediaSvc MediaServiceInterface) *LessonHandler {
	return &LessonHandler{
		lessonSvc: lessonSvc,
		notesSvc:  notesSvc,
		mediaSvc:  mediaSvc,
	}
}

// @Summary Get lesson catalog
// @Description Ordered lesson list with the caller's unlock and completion state
// @Tags lessons
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.CatalogResponse}
// @Router /api/v1/lessons [get]
func (h *LessonHandler) GetCatalog(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.lessonSvc.GetCatalog(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Get lesson detail
// @Description Full lesson body; 403 while the lesson is still locked
// @Tags lessons
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonDetailResponse}
// @Router /api/v1/lessons/{lessonId} [get]
func (h *LessonHandler) GetLesson(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	resp, err := h.lessonSvc.GetLesson(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Mark lesson complete
// @Description Idempotent; unlocks the next lesson
// @Tags lessons
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/lessons/{lessonId}/complete [post]
func (h *LessonHandler) MarkComplete(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	resp, err := h.lessonSvc.MarkComplete(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Lesson marked complete", resp)
}

// @Summary Mark lesson incomplete
// @Tags lessons
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/lessons/{lessonId}/complete [delete]
func (h *LessonHandler) MarkIncomplete(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	resp, err := h.lessonSvc.MarkIncomplete(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Lesson marked incomplete", resp)
}

// @Summary Save lesson notes
// @Description Accepted immediately; the write is debounced server side
// @Tags lessons
// @Accept json
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Param body body dto.SaveNotesRequest true "Notes text"
// @Success 202 {object} shared.Response{data=nil}
// @Router /api/v1/lessons/{lessonId}/notes [put]
func (h *LessonHandler) SaveNotes(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	var req dto.SaveNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.notesSvc.Save(userID, lessonID, req.Notes); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusAccepted, "Notes scheduled for save", nil)
}

// @Summary Get video playback URL
// @Description Presigned URL for direct-hosted lesson videos
// @Tags lessons
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.PresignedURLResponse}
// @Router /api/v1/lessons/{lessonId}/video-url [get]
func (h *LessonHandler) GetVideoURL(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	resp, err := h.mediaSvc.GetPlaybackURL(lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
