package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"optistore/internal/apperr"
	"optistore/internal/model"
	"optistore/internal/pricing"
	"optistore/internal/repository"
	"optistore/pkg/validator"
)

// ProductInput is the product form. Nil GSTPercentage and ReorderLevel take
// the store defaults on create and keep the stored value on update.
type ProductInput struct {
	Name          string              `json:"name"`
	CategoryID    *uuid.UUID          `json:"category_id"`
	Brand         string              `json:"brand"`
	ModelNumber   string              `json:"model_number"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	MRP           decimal.NullDecimal `json:"mrp"`
	GSTPercentage *decimal.Decimal    `json:"gst_percentage"`
	ReorderLevel  *int                `json:"reorder_level"`
	HSNCode       string              `json:"hsn_code"`
	LensType      model.LensType      `json:"lens_type"`
	FrameMaterial model.FrameMaterial `json:"frame_material"`
	BaseCurve     decimal.NullDecimal `json:"base_curve"`
	Diameter      decimal.NullDecimal `json:"diameter"`
}

type CatalogService interface {
	CreateProduct(ctx context.Context, caller model.Caller, req *ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, caller model.Caller, id uuid.UUID, req *ProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	DeleteProduct(ctx context.Context, caller model.Caller, id uuid.UUID) error

	CreateCategory(ctx context.Context, caller model.Caller, req *model.ProductCategory) (*model.ProductCategory, error)
	UpdateCategory(ctx context.Context, caller model.Caller, id uuid.UUID, req *model.ProductCategory) (*model.ProductCategory, error)
	ListCategories(ctx context.Context) ([]model.ProductCategory, error)
	DeleteCategory(ctx context.Context, caller model.Caller, id uuid.UUID) error

	CreateSupplier(ctx context.Context, caller model.Caller, req *model.Supplier) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, caller model.Caller, id uuid.UUID, req *model.Supplier) (*model.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	DeleteSupplier(ctx context.Context, caller model.Caller, id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	db           *gorm.DB
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.CategoryRepository, sRepo repository.SupplierRepository, db *gorm.DB) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		supplierRepo: sRepo,
		db:           db,
	}
}

// ---- products ----

func (s *catalogService) CreateProduct(ctx context.Context, caller model.Caller, req *ProductInput) (*model.Product, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	product := &model.Product{
		GSTPercentage: pricing.DefaultGSTPercentage,
		ReorderLevel:  pricing.DefaultReorderLevel,
	}
	applyProductInput(product, req)
	if err := s.checkProduct(ctx, product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, caller model.Caller, id uuid.UUID, req *ProductInput) (*model.Product, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductInput(product, req)
	product.Category = nil
	if err := s.checkProduct(ctx, product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *catalogService) DeleteProduct(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.productRepo.WithTx(tx).Delete(ctx, id)
	})
}

func (s *catalogService) checkProduct(ctx context.Context, product *model.Product) error {
	if err := validator.Check(product); err != nil {
		return err
	}
	if product.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *product.CategoryID); err != nil {
			if isNotFound(err) {
				return apperr.Invalid("category_id", "exists", "unknown category")
			}
			return err
		}
	}
	return nil
}

func applyProductInput(dst *model.Product, src *ProductInput) {
	dst.Name = strings.TrimSpace(src.Name)
	dst.CategoryID = src.CategoryID
	dst.Brand = strings.TrimSpace(src.Brand)
	dst.ModelNumber = strings.TrimSpace(src.ModelNumber)
	dst.Description = src.Description
	dst.Price = src.Price
	dst.MRP = src.MRP
	if src.GSTPercentage != nil {
		dst.GSTPercentage = *src.GSTPercentage
	}
	if src.ReorderLevel != nil {
		dst.ReorderLevel = *src.ReorderLevel
	}
	dst.HSNCode = strings.TrimSpace(src.HSNCode)
	dst.LensType = src.LensType
	dst.FrameMaterial = src.FrameMaterial
	dst.BaseCurve = src.BaseCurve
	dst.Diameter = src.Diameter
}

// ---- categories ----

func (s *catalogService) CreateCategory(ctx context.Context, caller model.Caller, req *model.ProductCategory) (*model.ProductCategory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	category := &model.ProductCategory{Name: strings.TrimSpace(req.Name), GSTRate: req.GSTRate}
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, caller model.Caller, id uuid.UUID, req *model.ProductCategory) (*model.ProductCategory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(req.Name)
	category.GSTRate = req.GSTRate
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.ProductCategory, error) {
	return s.categoryRepo.FindAll(ctx)
}

// DeleteCategory removes the category with its products; a billed product
// aborts the whole delete with a conflict.
func (s *catalogService) DeleteCategory(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.categoryRepo.WithTx(tx).Delete(ctx, id)
	})
}

func checkCategory(category *model.ProductCategory) error {
	if err := validator.Check(category); err != nil {
		return err
	}
	if category.GSTRate.Valid {
		rate := category.GSTRate.Decimal
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return apperr.Invalid("gst_rate", "range", "must be between 0 and 100")
		}
	}
	return nil
}

// ---- suppliers ----

func (s *catalogService) CreateSupplier(ctx context.Context, caller model.Caller, req *model.Supplier) (*model.Supplier, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	supplier := &model.Supplier{}
	applySupplierForm(supplier, req)
	if err := validator.Check(supplier); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, caller model.Caller, id uuid.UUID, req *model.Supplier) (*model.Supplier, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applySupplierForm(supplier, req)
	if err := validator.Check(supplier); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(ctx)
}

// DeleteSupplier keeps the supplier's inventory lots with the supplier cleared.
func (s *catalogService) DeleteSupplier(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.supplierRepo.WithTx(tx).Delete(ctx, id)
	})
}

func applySupplierForm(dst, src *model.Supplier) {
	dst.Name = strings.TrimSpace(src.Name)
	dst.ContactPerson = strings.TrimSpace(src.ContactPerson)
	dst.Phone = strings.TrimSpace(src.Phone)
	dst.Email = strings.TrimSpace(src.Email)
	dst.GSTIN = strings.ToUpper(strings.TrimSpace(src.GSTIN))
	dst.Address = src.Address
	dst.PaymentTerms = src.PaymentTerms
	dst.CreditLimit = src.CreditLimit
}
