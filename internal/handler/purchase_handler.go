package handler

import (
	"github.com/gofiber/fiber/v2"

	"optistore/internal/model"
	"optistore/internal/service"
)

type PurchaseHandler struct {
	service service.PurchaseService
}

func NewPurchaseHandler(s service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: s}
}

// AddPurchaseRequest is a purchase with an optional prescription taken at
// the same visit.
type AddPurchaseRequest struct {
	Purchase     model.Purchase      `json:"purchase"`
	Prescription *model.Prescription `json:"prescription"`
}

// AddPurchase records a purchase for a customer
// POST /api/v1/customers/:id/purchases
func (h *PurchaseHandler) AddPurchase(c *fiber.Ctx) error {
	customerID, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "customer")
	}
	var req AddPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	view, err := h.service.AddPurchase(c.UserContext(), caller(c), customerID, &req.Purchase, req.Prescription)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase recorded", "data": view})
}

func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "purchase")
	}
	view, err := h.service.GetPurchase(c.UserContext(), caller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *PurchaseHandler) DeletePurchase(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "purchase")
	}
	if err := h.service.DeletePurchase(c.UserContext(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase deleted"})
}

func (h *PurchaseHandler) DeletePrescription(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "prescription")
	}
	if err := h.service.DeletePrescription(c.UserContext(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Prescription deleted"})
}
