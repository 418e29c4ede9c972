package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optistore/internal/apperr"
	"optistore/internal/model"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error, "product")
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error, "product")
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

// FindByIDs returns NotFound unless every id resolves.
func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]bool, len(products))
	for _, p := range products {
		found[p.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperr.NotFound("product " + id.String())
		}
	}
	return products, nil
}

// Delete refuses products listed on a bill; inventory lots and sales of the
// product go with it. Must run inside a transaction.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteProduct(r.db.WithContext(ctx), id)
}

func productInBill(db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := db.Table("bill_products").Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func deleteProduct(db *gorm.DB, id uuid.UUID) error {
	billed, err := productInBill(db, id)
	if err != nil {
		return err
	}
	if billed {
		return apperr.Conflict("product is listed on a bill and cannot be deleted")
	}
	if err := db.Where("product_id = ?", id).Delete(&model.Inventory{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&model.Sale{}).Error; err != nil {
		return err
	}
	result := db.Delete(&model.Product{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "product")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product")
	}
	return nil
}
