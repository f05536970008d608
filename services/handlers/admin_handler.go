package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/shared"
)

type AdminHandler struct {
	adminSvc AdminServiceInterface
	mediaSvc MediaServiceInterface
}

func NewAdminHandler(adminSvc AdminServiceInterface, mediaSvc MediaServiceInterface) *AdminHandler {
	return &AdminHandler{
		adminSvc: adminSvc,
		mediaSvc: mediaSvc,
	}
}

// @Summary List all lessons
// @Description Every lesson regardless of status, in catalog order
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.AdminLessonResponse}
// @Router /api/v1/admin/lessons [get]
func (h *AdminHandler) ListLessons(c *fiber.Ctx) error {
	resp, err := h.adminSvc.ListLessons()
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Create lesson
// @Description New lessons append at the end of the ordering
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body dto.CreateLessonRequest true "Lesson fields"
// @Success 201 {object} shared.Response{data=dto.AdminLessonResponse}
// @Router /api/v1/admin/lessons [post]
func (h *AdminHandler) CreateLesson(c *fiber.Ctx) error {
	var req dto.CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.adminSvc.CreateLesson(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Lesson created", resp)
}

// @Summary Update lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Param body body dto.UpdateLessonRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.AdminLessonResponse}
// @Router /api/v1/admin/lessons/{lessonId} [put]
func (h *AdminHandler) UpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	var req dto.UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.adminSvc.UpdateLesson(lessonID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Lesson updated", resp)
}

// @Summary Delete lesson
// @Description Removes the lesson with its progress and quiz
// @Tags admin
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/lessons/{lessonId} [delete]
func (h *AdminHandler) DeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	if err := h.adminSvc.DeleteLesson(lessonID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Lesson deleted", nil)
}

// @Summary Reorder lesson
// @Description Swap the lesson with its neighbor; boundary moves are no-ops
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Param body body dto.ReorderLessonRequest true "Direction: up or down"
// @Success 200 {object} shared.Response{data=[]dto.AdminLessonResponse}
// @Router /api/v1/admin/lessons/{lessonId}/reorder [post]
func (h *AdminHandler) ReorderLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	var req dto.ReorderLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.adminSvc.ReorderLesson(lessonID, req.Direction)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Lessons reordered", resp)
}

// @Summary Create lesson quiz
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Param body body dto.CreateQuizRequest true "Quiz with questions and options"
// @Success 201 {object} shared.Response{data=dto.QuizResponse}
// @Router /api/v1/admin/lessons/{lessonId}/quiz [post]
func (h *AdminHandler) CreateQuiz(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.adminSvc.CreateQuiz(lessonID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Quiz created", resp)
}

// @Summary Delete lesson quiz
// @Tags admin
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/lessons/{lessonId}/quiz [delete]
func (h *AdminHandler) DeleteQuiz(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	if err := h.adminSvc.DeleteQuiz(lessonID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quiz deleted", nil)
}

// @Summary Upload lesson thumbnail
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Param file formData file true "Thumbnail image"
// @Success 200 {object} shared.Response{data=dto.UploadResponse}
// @Router /api/v1/admin/lessons/{lessonId}/thumbnail [post]
func (h *AdminHandler) UploadThumbnail(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "Missing file upload")
	}

	resp, err := h.mediaSvc.UploadThumbnail(lessonID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Thumbnail uploaded", resp)
}

// @Summary Upload lesson video
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param lessonId path string true "Lesson ID"
// @Param file formData file true "Video file"
// @Success 200 {object} shared.Response{data=dto.UploadResponse}
// @Router /api/v1/admin/lessons/{lessonId}/video [post]
func (h *AdminHandler) UploadVideo(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "Missing file upload")
	}

	resp, err := h.mediaSvc.UploadVideo(lessonID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Video uploaded", resp)
}

// @Summary List users
// @Description Users with role, promo status and learning stats
// @Tags admin
// @Produce json
// @Security Bearer
// @Param search query string false "Match against email, username or full name"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.AdminUserListResponse}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	search := c.Query("search")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 25)

	resp, err := h.adminSvc.ListUsers(search, page, limit)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Set user role
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param userId path string true "User ID"
// @Param body body dto.SetUserRoleRequest true "Role: student or admin"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/users/{userId}/role [put]
func (h *AdminHandler) SetUserRole(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var req dto.SetUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.adminSvc.SetUserRole(userID, req); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Role updated", nil)
}

// @Summary Enable or disable a user
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param userId path string true "User ID"
// @Param body body dto.SetUserActiveRequest true "Active flag"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/users/{userId}/active [put]
func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var req dto.SetUserActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := h.adminSvc.SetUserActive(userID, req.IsActive); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "User updated", nil)
}

// @Summary Get user detail
// @Description One user's profile, promo state and quiz attempt history
// @Tags admin
// @Produce json
// @Security Bearer
// @Param userId path string true "User ID"
// @Success 200 {object} shared.Response{data=dto.AdminUserDetailResponse}
// @Router /api/v1/admin/users/{userId} [get]
func (h *AdminHandler) GetUserDetail(c *fiber.Ctx) error {
	resp, err := h.adminSvc.GetUserDetail(c.Params("userId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary List promo codes
// @Description All promo codes with their owner's email
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.AdminPromoListResponse}
// @Router /api/v1/admin/promo-codes [get]
func (h *AdminHandler) ListPromoCodes(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 25)

	resp, err := h.adminSvc.ListPromoCodes(page, limit)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Expire a promo code
// @Description Retires an unused code; activated codes cannot be expired
// @Tags admin
// @Produce json
// @Security Bearer
// @Param codeId path string true "Promo code ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/promo-codes/{codeId}/expire [put]
func (h *AdminHandler) ExpirePromoCode(c *fiber.Ctx) error {
	if err := h.adminSvc.ExpirePromoCode(c.Params("codeId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Promo code expired", nil)
}
