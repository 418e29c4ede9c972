package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optistore/internal/model"
)

type PurchaseRepository interface {
	WithTx(tx *gorm.DB) PurchaseRepository
	Create(ctx context.Context, purchase *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) WithTx(tx *gorm.DB) PurchaseRepository {
	return &purchaseRepo{tx}
}

func (r *purchaseRepo) Create(ctx context.Context, purchase *model.Purchase) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(purchase).Error, "purchase")
}

// FindByID preloads Customer so callers can check ownership.
func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := r.db.WithContext(ctx).Preload("Customer").First(&purchase, "id = ?", id).Error; err != nil {
		return nil, translate(err, "purchase")
	}
	return &purchase, nil
}

// Delete detaches prescriptions recorded with the purchase, then removes it.
func (r *purchaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Prescription{}).Where("purchase_id = ?", id).UpdateColumn("purchase_id", nil).Error; err != nil {
		return err
	}
	result := db.Delete(&model.Purchase{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "purchase")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "purchase")
	}
	return nil
}
