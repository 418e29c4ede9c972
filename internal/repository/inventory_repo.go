package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optistore/internal/apperr"
	"optistore/internal/model"
)

type InventoryRepository interface {
	WithTx(tx *gorm.DB) InventoryRepository
	Create(ctx context.Context, item *model.Inventory) error
	Update(ctx context.Context, item *model.Inventory) error
	SetQuantity(ctx context.Context, id uuid.UUID, version, quantity int) (bool, error)
	SetActive(ctx context.Context, id uuid.UUID, version int, active bool) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	ListActive(ctx context.Context) ([]model.Inventory, error)
	FindByBatch(ctx context.Context, batchNumber string) ([]model.Inventory, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]model.Inventory, error)
	LowStock(ctx context.Context, limit int) ([]model.Inventory, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) WithTx(tx *gorm.DB) InventoryRepository {
	return &inventoryRepo{tx}
}

func (r *inventoryRepo) Create(ctx context.Context, item *model.Inventory) error {
	if item.Version == 0 {
		item.Version = 1
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error, "inventory")
}

// Update writes every editable column, but only if the row is still at
// item.Version. On success item.Version is advanced.
func (r *inventoryRepo) Update(ctx context.Context, item *model.Inventory) error {
	ok, err := r.updateVersioned(ctx, item.ID, item.Version, map[string]interface{}{
		"product_id":     item.ProductID,
		"supplier_id":    item.SupplierID,
		"batch_number":   item.BatchNumber,
		"quantity":       item.Quantity,
		"purchase_price": item.PurchasePrice,
		"selling_price":  item.SellingPrice,
		"purchase_date":  item.PurchaseDate,
		"expiry_date":    item.ExpiryDate,
		"mfg_date":       item.MfgDate,
		"import_duty":    item.ImportDuty,
		"is_active":      item.IsActive,
	})
	if err != nil {
		return translate(err, "inventory")
	}
	if !ok {
		return apperr.Conflict("inventory item was changed by someone else, reload and retry")
	}
	item.Version++
	return nil
}

// SetQuantity reports false when the row is no longer at version.
func (r *inventoryRepo) SetQuantity(ctx context.Context, id uuid.UUID, version, quantity int) (bool, error) {
	return r.updateVersioned(ctx, id, version, map[string]interface{}{"quantity": quantity})
}

func (r *inventoryRepo) SetActive(ctx context.Context, id uuid.UUID, version int, active bool) (bool, error) {
	return r.updateVersioned(ctx, id, version, map[string]interface{}{"is_active": active})
}

func (r *inventoryRepo) updateVersioned(ctx context.Context, id uuid.UUID, version int, fields map[string]interface{}) (bool, error) {
	fields["version"] = gorm.Expr("version + 1")
	result := r.db.WithContext(ctx).Model(&model.Inventory{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var item model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Supplier").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "inventory")
	}
	return &item, nil
}

func (r *inventoryRepo) ListActive(ctx context.Context) ([]model.Inventory, error) {
	var items []model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Supplier").
		Where("is_active = ?", true).
		Order("created_at DESC").Order("id").
		Find(&items).Error
	return items, err
}

// FindByBatch returns every lot carrying the batch number, NotFound if none.
func (r *inventoryRepo) FindByBatch(ctx context.Context, batchNumber string) ([]model.Inventory, error) {
	var items []model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Supplier").
		Where("batch_number = ?", batchNumber).
		Order("created_at").Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFound("batch " + batchNumber)
	}
	return items, nil
}

func (r *inventoryRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]model.Inventory, error) {
	var items []model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("supplier_id = ?", supplierID).
		Order("purchase_date DESC").Order("id").
		Find(&items).Error
	return items, err
}

// LowStock lists active lots below their product's reorder level, oldest
// first. limit <= 0 means no limit.
func (r *inventoryRepo) LowStock(ctx context.Context, limit int) ([]model.Inventory, error) {
	var items []model.Inventory
	q := r.db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN products ON products.id = inventory.product_id").
		Where("inventory.is_active = ? AND inventory.quantity < products.reorder_level", true).
		Order("inventory.created_at ASC").Order("inventory.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&items).Error
	return items, err
}
