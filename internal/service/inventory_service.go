package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"optistore/internal/apperr"
	"optistore/internal/metrics"
	"optistore/internal/model"
	"optistore/internal/repository"
	"optistore/internal/ws"
	"optistore/pkg/validator"
)

// adjustAttempts bounds the optimistic retry loop in AdjustStock.
const adjustAttempts = 3

type InventoryService interface {
	Create(ctx context.Context, caller model.Caller, req *model.Inventory) (*model.Inventory, error)
	Update(ctx context.Context, caller model.Caller, id uuid.UUID, req *model.Inventory) (*model.Inventory, error)
	Toggle(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Inventory, error)
	AdjustStock(ctx context.Context, caller model.Caller, id uuid.UUID, delta int) (*model.Inventory, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	List(ctx context.Context) (*InventoryList, error)
	Batch(ctx context.Context, batchNumber string) ([]model.Inventory, error)
	SupplierLedger(ctx context.Context, supplierID uuid.UUID) (*SupplierLedger, error)
	LowStock(ctx context.Context, limit int) ([]model.Inventory, error)
}

// InventoryList is the active stock with its value at selling price.
type InventoryList struct {
	Items      []model.Inventory `json:"items"`
	TotalValue decimal.Decimal   `json:"total_value"`
}

type SupplierLedger struct {
	Supplier   *model.Supplier   `json:"supplier"`
	Items      []model.Inventory `json:"items"`
	TotalValue decimal.Decimal   `json:"total_value"`
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	supplierRepo  repository.SupplierRepository
	events        ws.Publisher
}

func NewInventoryService(iRepo repository.InventoryRepository, pRepo repository.ProductRepository, sRepo repository.SupplierRepository, events ws.Publisher) InventoryService {
	if events == nil {
		events = ws.Discard{}
	}
	return &inventoryService{
		inventoryRepo: iRepo,
		productRepo:   pRepo,
		supplierRepo:  sRepo,
		events:        events,
	}
}

func (s *inventoryService) Create(ctx context.Context, caller model.Caller, req *model.Inventory) (*model.Inventory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	item := &model.Inventory{}
	applyInventoryForm(item, req)
	item.IsActive = true
	item.CreatedByID = &caller.AccountID
	item.Version = 1
	if err := s.checkInventory(ctx, item); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	created, err := s.inventoryRepo.FindByID(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	s.publish(caller, "inventory_created", created, fmt.Sprintf("%s added batch %s", caller.Username, created.BatchNumber))
	s.publishIfLow(ctx, caller, created, -1)
	return created, nil
}

// Update applies a form edit. req.Version must be the version the form was
// loaded at; a newer row yields a conflict.
func (s *inventoryService) Update(ctx context.Context, caller model.Caller, id uuid.UUID, req *model.Inventory) (*model.Inventory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	existing, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != existing.Version {
		metrics.StockAdjustments.WithLabelValues("conflict").Inc()
		return nil, apperr.Conflict("inventory item was changed by someone else, reload and retry")
	}
	oldQty := existing.Quantity

	applyInventoryForm(existing, req)
	existing.IsActive = req.IsActive
	if err := s.checkInventory(ctx, existing); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	updated, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(caller, "inventory_updated", updated, fmt.Sprintf("%s updated batch %s", caller.Username, updated.BatchNumber))
	s.publishIfLow(ctx, caller, updated, oldQty)
	return updated, nil
}

// Toggle flips is_active. Quantity is left alone.
func (s *inventoryService) Toggle(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Inventory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	item, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.inventoryRepo.SetActive(ctx, id, item.Version, !item.IsActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Conflict("inventory item was changed by someone else, reload and retry")
	}
	item.IsActive = !item.IsActive
	item.Version++

	action := "inventory_deactivated"
	if item.IsActive {
		action = "inventory_activated"
	}
	s.publish(caller, action, item, fmt.Sprintf("%s %s batch %s", caller.Username, verb(item.IsActive), item.BatchNumber))
	return item, nil
}

// AdjustStock adds delta (negative to remove) to the lot's quantity. A
// concurrent writer makes the conditional update miss; the adjustment is
// then re-read and re-applied, up to adjustAttempts times.
func (s *inventoryService) AdjustStock(ctx context.Context, caller model.Caller, id uuid.UUID, delta int) (*model.Inventory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, apperr.Invalid("delta", "ne", "must not be zero")
	}

	for attempt := 1; attempt <= adjustAttempts; attempt++ {
		item, err := s.inventoryRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		newQty := item.Quantity + delta
		if newQty < 0 {
			metrics.StockAdjustments.WithLabelValues("rejected").Inc()
			return nil, apperr.Invalid("quantity", "gte", fmt.Sprintf("insufficient stock: %d on hand", item.Quantity))
		}

		ok, err := s.inventoryRepo.SetQuantity(ctx, id, item.Version, newQty)
		if err != nil {
			return nil, err
		}
		if !ok {
			metrics.StockAdjustments.WithLabelValues("retried").Inc()
			continue
		}

		metrics.StockAdjustments.WithLabelValues("applied").Inc()
		oldQty := item.Quantity
		item.Quantity = newQty
		item.Version++
		s.publish(caller, "stock_adjusted", item,
			fmt.Sprintf("%s changed batch %s from %d to %d", caller.Username, item.BatchNumber, oldQty, newQty))
		s.publishIfLow(ctx, caller, item, oldQty)
		return item, nil
	}

	metrics.StockAdjustments.WithLabelValues("conflict").Inc()
	return nil, apperr.Conflict(fmt.Sprintf("stock for inventory %s kept changing, try again", id))
}

func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	return s.inventoryRepo.FindByID(ctx, id)
}

func (s *inventoryService) List(ctx context.Context) (*InventoryList, error) {
	items, err := s.inventoryRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryList{Items: items, TotalValue: totalValue(items)}, nil
}

func (s *inventoryService) Batch(ctx context.Context, batchNumber string) ([]model.Inventory, error) {
	return s.inventoryRepo.FindByBatch(ctx, batchNumber)
}

func (s *inventoryService) SupplierLedger(ctx context.Context, supplierID uuid.UUID) (*SupplierLedger, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	items, err := s.inventoryRepo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return &SupplierLedger{Supplier: supplier, Items: items, TotalValue: totalValue(items)}, nil
}

// LowStock lists active lots under their reorder level; limit <= 0 lists all.
func (s *inventoryService) LowStock(ctx context.Context, limit int) ([]model.Inventory, error) {
	return s.inventoryRepo.LowStock(ctx, limit)
}

func (s *inventoryService) checkInventory(ctx context.Context, item *model.Inventory) error {
	if err := validator.Check(item); err != nil {
		return err
	}
	if _, err := s.productRepo.FindByID(ctx, item.ProductID); err != nil {
		if isNotFound(err) {
			return apperr.Invalid("product_id", "exists", "unknown product")
		}
		return err
	}
	if item.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *item.SupplierID); err != nil {
			if isNotFound(err) {
				return apperr.Invalid("supplier_id", "exists", "unknown supplier")
			}
			return err
		}
	}
	if item.ExpiryDate != nil && item.ExpiryDate.Before(item.PurchaseDate) {
		return apperr.Invalid("expiry_date", "gtefield", "must not be before the purchase date")
	}
	return nil
}

func (s *inventoryService) publish(caller model.Caller, action string, item *model.Inventory, message string) {
	s.events.Publish(ws.Event{
		Type:    "stock_update",
		Action:  action,
		Data:    stockPayload(item),
		User:    caller.Username,
		Message: message,
	})
}

// publishIfLow announces a lot that has just dropped under its reorder
// level. oldQty < 0 means the lot is new.
func (s *inventoryService) publishIfLow(ctx context.Context, caller model.Caller, item *model.Inventory, oldQty int) {
	if item.Product == nil {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return
		}
		item.Product = product
	}
	if !item.IsLowStock() {
		return
	}
	if oldQty >= 0 && oldQty < item.Product.ReorderLevel {
		return
	}
	metrics.LowStockEvents.Inc()
	s.events.Publish(ws.Event{
		Type:    "stock_alert",
		Action:  "low_stock",
		Data:    stockPayload(item),
		User:    caller.Username,
		Message: fmt.Sprintf("%s is low on stock: %d left (reorder level %d)", item.Product.Name, item.Quantity, item.Product.ReorderLevel),
	})
}

func stockPayload(item *model.Inventory) map[string]interface{} {
	payload := map[string]interface{}{
		"id":           item.ID,
		"product_id":   item.ProductID,
		"batch_number": item.BatchNumber,
		"quantity":     item.Quantity,
		"is_active":    item.IsActive,
		"version":      item.Version,
	}
	if item.Product != nil {
		payload["product"] = item.Product.Name
		payload["reorder_level"] = item.Product.ReorderLevel
	}
	return payload
}

func applyInventoryForm(dst, src *model.Inventory) {
	dst.ProductID = src.ProductID
	dst.SupplierID = src.SupplierID
	dst.BatchNumber = src.BatchNumber
	dst.Quantity = src.Quantity
	dst.PurchasePrice = src.PurchasePrice
	dst.SellingPrice = src.SellingPrice
	dst.PurchaseDate = src.PurchaseDate
	dst.ExpiryDate = src.ExpiryDate
	dst.MfgDate = src.MfgDate
	dst.ImportDuty = src.ImportDuty
	dst.Product = nil
	dst.Supplier = nil
}

func totalValue(items []model.Inventory) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].TotalValue())
	}
	return total
}

func verb(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}
