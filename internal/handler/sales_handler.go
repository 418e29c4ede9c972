package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"optistore/internal/apperr"
	"optistore/internal/export"
	"optistore/internal/model"
	"optistore/internal/service"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

func (h *SalesHandler) RecordSale(c *fiber.Ctx) error {
	var req model.Sale
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	sale, err := h.service.Record(c.UserContext(), caller(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "sale")
	}
	sale, err := h.service.Get(c.UserContext(), caller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

func (h *SalesHandler) DeleteSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "sale")
	}
	if err := h.service.Delete(c.UserContext(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale deleted"})
}

// GetReport lists the caller's sales with their total
// GET /api/v1/sales?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD&category=<uuid>
func (h *SalesHandler) GetReport(c *fiber.Ctx) error {
	q, err := salesQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.service.Report(c.UserContext(), caller(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetGSTReport buckets the filtered sales by GST rate
// GET /api/v1/sales/gst
func (h *SalesHandler) GetGSTReport(c *fiber.Ctx) error {
	q, err := salesQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.service.GSTReport(c.UserContext(), caller(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// ExportSales streams the filtered sales as an .xlsx workbook
// GET /api/v1/sales/export
func (h *SalesHandler) ExportSales(c *fiber.Ctx) error {
	q, err := salesQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	rows, err := h.service.ExportRows(c.UserContext(), caller(c), q)
	if err != nil {
		return respondError(c, err)
	}

	sheet := export.Sheet{Name: "Sales", Header: service.SalesExportHeader, Rows: make([][]interface{}, len(rows))}
	for i, row := range rows {
		sheet.Rows[i] = row.Cells()
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, sheet); err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="sales_%s.xlsx"`, time.Now().Format("20060102")))
	return c.Send(buf.Bytes())
}

func salesQuery(c *fiber.Ctx) (service.SalesQuery, error) {
	var q service.SalesQuery
	var err error
	if q.Start, err = queryDate(c, "start_date"); err != nil {
		return q, err
	}
	if q.End, err = queryDate(c, "end_date"); err != nil {
		return q, err
	}
	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return q, apperr.Invalid("category", "uuid", "invalid category ID")
		}
		q.CategoryID = &id
	}
	return q, nil
}
