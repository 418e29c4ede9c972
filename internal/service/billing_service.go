package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"optistore/internal/apperr"
	"optistore/internal/model"
	"optistore/internal/repository"
	"optistore/pkg/validator"
)

// BillInput is the bill form: the products sold (each counted once), a flat
// discount and the payment method.
type BillInput struct {
	ProductIDs    []uuid.UUID         `json:"products"`
	Discount      decimal.Decimal     `json:"discount"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

type BillingService interface {
	Create(ctx context.Context, caller model.Caller, customerID uuid.UUID, req *BillInput) (*model.Bill, error)
	Get(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Bill, error)
	Delete(ctx context.Context, caller model.Caller, id uuid.UUID) error
}

type billingService struct {
	billRepo     repository.BillRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	db           *gorm.DB
}

func NewBillingService(bRepo repository.BillRepository, cRepo repository.CustomerRepository, pRepo repository.ProductRepository, db *gorm.DB) BillingService {
	return &billingService{
		billRepo:     bRepo,
		customerRepo: cRepo,
		productRepo:  pRepo,
		db:           db,
	}
}

// Create bills the customer for the listed products. Total is the sum of
// product prices minus the discount; a discount above that sum is rejected.
func (s *billingService) Create(ctx context.Context, caller model.Caller, customerID uuid.UUID, req *BillInput) (*model.Bill, error) {
	ids := uniqueIDs(req.ProductIDs)
	if len(ids) == 0 {
		return nil, apperr.Invalid("products", "required", "select at least one product")
	}

	var bill *model.Bill
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.WithTx(tx).FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		if err := requireOwner(caller, customer.AccountID, "customer"); err != nil {
			return err
		}

		products, err := s.productRepo.WithTx(tx).FindByIDs(ctx, ids)
		if err != nil {
			if isNotFound(err) {
				return apperr.Invalid("products", "exists", err.Error())
			}
			return err
		}

		bill = &model.Bill{
			CustomerID:    customer.ID,
			Products:      products,
			Date:          time.Now(),
			Discount:      req.Discount,
			PaymentMethod: req.PaymentMethod,
			CreatedByID:   caller.AccountID,
		}
		if err := validator.Check(bill); err != nil {
			return err
		}
		if bill.Discount.GreaterThan(bill.Subtotal()) {
			return apperr.Invalid("discount", "lte", "discount cannot exceed the bill subtotal")
		}
		bill.Recalculate()

		return s.billRepo.WithTx(tx).Create(ctx, bill)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *billingService) Get(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Bill, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireCustomerOwner(caller, bill.Customer, "bill"); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *billingService) Delete(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.billRepo.WithTx(tx)
		bill, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireCustomerOwner(caller, bill.Customer, "bill"); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
