package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/perplexity-school/api/dto"
	"github.com/perplexity-school/api/shared"
)

type PromoHandler struct {
	promoSvc PromoServiceInterface
}

func NewPromoHandler(promoSvc PromoServiceInterface) *PromoHandler {
	return &PromoHandler{promoSvc: promoSvc}
}

// @Summary Get own promo code
// @Tags promo
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.PromoCodeResponse}
// @Router /api/v1/promo [get]
func (h *PromoHandler) GetPromo(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.promoSvc.GetUserPromo(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Activate promo code
// @Description One-way activation against a Perplexity account email
// @Tags promo
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body dto.ActivatePromoRequest true "Perplexity account email"
// @Success 200 {object} shared.Response{data=dto.PromoCodeResponse}
// @Router /api/v1/promo/activate [post]
func (h *PromoHandler) Activate(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.ActivatePromoRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.promoSvc.Activate(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Promo code activated", resp)
}
