package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optistore/internal/model"
)

type SupplierRepository interface {
	WithTx(tx *gorm.DB) SupplierRepository
	Create(ctx context.Context, supplier *model.Supplier) error
	Update(ctx context.Context, supplier *model.Supplier) error
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) WithTx(tx *gorm.DB) SupplierRepository {
	return &supplierRepo{tx}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return translate(r.db.WithContext(ctx).Create(supplier).Error, "supplier")
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	return translate(r.db.WithContext(ctx).Save(supplier).Error, "supplier")
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, translate(err, "supplier")
	}
	return &supplier, nil
}

// Delete clears the supplier on its inventory lots before removing it.
func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	err := db.Model(&model.Inventory{}).Where("supplier_id = ?", id).
		UpdateColumns(map[string]interface{}{
			"supplier_id": nil,
			"version":     gorm.Expr("version + 1"),
		}).Error
	if err != nil {
		return err
	}
	result := db.Delete(&model.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "supplier")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "supplier")
	}
	return nil
}
