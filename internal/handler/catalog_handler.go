package handler

import (
	"github.com/gofiber/fiber/v2"

	"optistore/internal/model"
	"optistore/internal/service"
)

// CatalogHandler serves products, categories and suppliers.
type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "product")
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": product, "total_cost": product.TotalCost().StringFixed(2)})
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), caller(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "product")
	}
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), caller(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "product")
	}
	if err := h.service.DeleteProduct(c.UserContext(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req model.ProductCategory
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	category, err := h.service.CreateCategory(c.UserContext(), caller(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "category")
	}
	var req model.ProductCategory
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	category, err := h.service.UpdateCategory(c.UserContext(), caller(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

// DeleteCategory also removes the category's products
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "category")
	}
	if err := h.service.DeleteCategory(c.UserContext(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

func (h *CatalogHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}

func (h *CatalogHandler) GetSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "supplier")
	}
	supplier, err := h.service.GetSupplier(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}

func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var req model.Supplier
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	supplier, err := h.service.CreateSupplier(c.UserContext(), caller(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *CatalogHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "supplier")
	}
	var req model.Supplier
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	supplier, err := h.service.UpdateSupplier(c.UserContext(), caller(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}

func (h *CatalogHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "supplier")
	}
	if err := h.service.DeleteSupplier(c.UserContext(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
