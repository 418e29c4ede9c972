package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"optistore/internal/model"
	"optistore/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// AdjustStockRequest carries a signed quantity change.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// GetInventory lists active lots with their total value
// GET /api/v1/inventory
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "inventory")
	}
	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":         item,
		"total_cost":   item.TotalCost().StringFixed(2),
		"total_value":  item.TotalValue().StringFixed(2),
		"is_low_stock": item.IsLowStock(),
	})
}

func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var req model.Inventory
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	item, err := h.service.Create(c.UserContext(), caller(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Inventory item created", "data": item})
}

// UpdateItem expects the version the form was loaded at
// PUT /api/v1/inventory/:id
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "inventory")
	}
	var req model.Inventory
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	item, err := h.service.Update(c.UserContext(), caller(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Inventory item updated", "data": item})
}

func (h *InventoryHandler) ToggleItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "inventory")
	}
	item, err := h.service.Toggle(c.UserContext(), caller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Inventory item " + statusWord(item.IsActive), "data": item})
}

// AdjustStock applies a signed quantity change
// POST /api/v1/inventory/:id/adjust
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "inventory")
	}
	var req AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	item, err := h.service.AdjustStock(c.UserContext(), caller(c), id, req.Delta)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": item})
}

func (h *InventoryHandler) GetBatch(c *fiber.Ctx) error {
	items, err := h.service.Batch(c.UserContext(), c.Params("batch"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GetLowStock lists low lots; ?limit= caps the list (default all)
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}
	items, err := h.service.LowStock(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GetSupplierLedger lists a supplier's lots with their total value
// GET /api/v1/suppliers/:id/inventory
func (h *InventoryHandler) GetSupplierLedger(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "supplier")
	}
	ledger, err := h.service.SupplierLedger(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ledger)
}

func statusWord(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}
