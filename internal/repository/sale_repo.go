package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optistore/internal/model"
)

// SaleFilter narrows the sales of one account. Start and End are inclusive
// calendar days; nil leaves that side open.
type SaleFilter struct {
	CreatedByID uuid.UUID
	Start       *time.Time
	End         *time.Time
	CategoryID  *uuid.UUID
}

type SaleRepository interface {
	WithTx(tx *gorm.DB) SaleRepository
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	Filter(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	Recent(ctx context.Context, createdByID uuid.UUID, limit int) ([]model.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) WithTx(tx *gorm.DB) SaleRepository {
	return &saleRepo{tx}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error, "sale")
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).Preload("Product").Preload("Customer").First(&sale, "id = ?", id).Error; err != nil {
		return nil, translate(err, "sale")
	}
	return &sale, nil
}

// Filter returns matching sales newest first with Product.Category and
// Customer loaded.
func (r *saleRepo) Filter(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Customer").
		Where("sales.created_by_id = ?", filter.CreatedByID)

	if filter.Start != nil {
		q = q.Where("sales.date >= ?", model.DateOnly(*filter.Start))
	}
	if filter.End != nil {
		q = q.Where("sales.date < ?", model.DateOnly(*filter.End).AddDate(0, 0, 1))
	}
	if filter.CategoryID != nil {
		q = q.Joins("JOIN products ON products.id = sales.product_id").
			Where("products.category_id = ?", *filter.CategoryID)
	}

	err := q.Order("sales.date DESC").Order("sales.created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Recent(ctx context.Context, createdByID uuid.UUID, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Customer").
		Where("created_by_id = ?", createdByID).
		Order("date DESC").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Sale{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "sale")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "sale")
	}
	return nil
}
