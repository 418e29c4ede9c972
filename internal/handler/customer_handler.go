package handler

import (
	"github.com/gofiber/fiber/v2"

	"optistore/internal/model"
	"optistore/internal/service"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

// GetCustomers lists the caller's customers, filtered by ?q= when given
// GET /api/v1/customers
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.Search(c.UserContext(), caller(c), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

// GetCustomer returns the customer with history, purchases, prescriptions and bills
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "customer")
	}
	customer, err := h.service.Details(c.UserContext(), caller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	customer, err := h.service.Create(c.UserContext(), caller(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "customer")
	}
	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	customer, err := h.service.Update(c.UserContext(), caller(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "customer")
	}
	if err := h.service.Delete(c.UserContext(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
