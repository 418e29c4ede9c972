package handler

import (
	"github.com/gofiber/fiber/v2"

	"optistore/internal/service"
)

type BillingHandler struct {
	service service.BillingService
}

func NewBillingHandler(s service.BillingService) *BillingHandler {
	return &BillingHandler{service: s}
}

// CreateBill bills a customer for a set of products
// POST /api/v1/customers/:id/bills
func (h *BillingHandler) CreateBill(c *fiber.Ctx) error {
	customerID, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "customer")
	}
	var req service.BillInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	bill, err := h.service.Create(c.UserContext(), caller(c), customerID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Bill created", "data": bill})
}

func (h *BillingHandler) GetBill(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "bill")
	}
	bill, err := h.service.Get(c.UserContext(), caller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": bill, "subtotal": bill.Subtotal().StringFixed(2)})
}

func (h *BillingHandler) DeleteBill(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "bill")
	}
	if err := h.service.Delete(c.UserContext(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bill deleted"})
}
