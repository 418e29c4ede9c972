package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optistore/internal/model"
)

type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(ctx context.Context, category *model.ProductCategory) error
	Update(ctx context.Context, category *model.ProductCategory) error
	FindAll(ctx context.Context) ([]model.ProductCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepo{tx}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.ProductCategory) error {
	return translate(r.db.WithContext(ctx).Create(category).Error, "category")
}

func (r *categoryRepo) Update(ctx context.Context, category *model.ProductCategory) error {
	return translate(r.db.WithContext(ctx).Save(category).Error, "category")
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.ProductCategory, error) {
	var categories []model.ProductCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductCategory, error) {
	var category model.ProductCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

// Delete removes the category and each of its products under the product
// delete rules, so one billed product aborts the whole delete.
func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	var productIDs []uuid.UUID
	if err := db.Model(&model.Product{}).Where("category_id = ?", id).Pluck("id", &productIDs).Error; err != nil {
		return err
	}
	for _, productID := range productIDs {
		if err := deleteProduct(db, productID); err != nil {
			return err
		}
	}

	result := db.Delete(&model.ProductCategory{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "category")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "category")
	}
	return nil
}
