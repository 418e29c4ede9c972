package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optistore/internal/model"
)

type BillRepository interface {
	WithTx(tx *gorm.DB) BillRepository
	Create(ctx context.Context, bill *model.Bill) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Bill, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type billRepo struct {
	db *gorm.DB
}

func NewBillRepo(db *gorm.DB) BillRepository {
	return &billRepo{db}
}

func (r *billRepo) WithTx(tx *gorm.DB) BillRepository {
	return &billRepo{tx}
}

// Create inserts the bill and its bill_products rows. The products
// themselves must already exist and are not written.
func (r *billRepo) Create(ctx context.Context, bill *model.Bill) error {
	err := r.db.WithContext(ctx).
		Omit("Customer", "CreatedBy", "Products.*").
		Create(bill).Error
	return translate(err, "bill")
}

// FindByID preloads Customer for the ownership check.
func (r *billRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	var bill model.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Products").
		First(&bill, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "bill")
	}
	return &bill, nil
}

func (r *billRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM bill_products WHERE bill_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&model.Bill{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "bill")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "bill")
	}
	return nil
}
