package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/shared"
)

type UserHandler struct {
	userSvc UserServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// @Summary Get own profile
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.UserResponse}
// @Router /api/v1/me [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetProfile(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Update own profile
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body dto.UpdateProfileRequest true "Profile fields to update"
// @Success 200 {object} shared.Response{data=dto.UserResponse}
// @Router /api/v1/me [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.userSvc.UpdateProfile(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Profile updated successfully", resp)
}

// @Summary List own sessions
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.SessionResponse}
// @Router /api/v1/sessions [get]
func (h *UserHandler) GetSessions(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	sessionID := c.Locals(shared.SessionID).(string)

	resp, err := h.userSvc.GetSessions(userID, sessionID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Revoke a session
// @Tags user
// @Produce json
// @Security Bearer
// @Param sessionId path string true "Session ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/sessions/{sessionId} [delete]
func (h *UserHandler) RevokeSession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	sessionID := c.Params("sessionId")

	if err := h.userSvc.RevokeSession(userID, sessionID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Session revoked successfully", nil)
}
