package handler

import (
	"github.com/gofiber/fiber/v2"

	"optistore/internal/service"
)

type PromotionHandler struct {
	service service.PromotionService
}

func NewPromotionHandler(s service.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: s}
}

// SendPromotionRequest is the promotional text sent to every customer.
type SendPromotionRequest struct {
	Message string `json:"message"`
}

// SendPromotion messages all of the caller's customers by SMS and email
// POST /api/v1/promotions
func (h *PromotionHandler) SendPromotion(c *fiber.Ctx) error {
	var req SendPromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	result, err := h.service.Send(c.UserContext(), caller(c), req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
