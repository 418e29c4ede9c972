package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optistore/internal/apperr"
	"optistore/internal/model"
	"optistore/internal/repository"
	"optistore/pkg/validator"
)

type PurchaseService interface {
	AddPurchase(ctx context.Context, caller model.Caller, customerID uuid.UUID, purchase *model.Purchase, prescription *model.Prescription) (*PurchaseView, error)
	GetPurchase(ctx context.Context, caller model.Caller, id uuid.UUID) (*PurchaseView, error)
	DeletePurchase(ctx context.Context, caller model.Caller, id uuid.UUID) error
	DeletePrescription(ctx context.Context, caller model.Caller, id uuid.UUID) error
}

// PurchaseView is a purchase with the prescription recorded alongside it,
// if any.
type PurchaseView struct {
	Purchase     *model.Purchase     `json:"purchase"`
	Prescription *model.Prescription `json:"prescription"`
	TotalCost    string              `json:"total_cost"`
}

type purchaseService struct {
	customerRepo     repository.CustomerRepository
	purchaseRepo     repository.PurchaseRepository
	prescriptionRepo repository.PrescriptionRepository
	db               *gorm.DB
}

func NewPurchaseService(cRepo repository.CustomerRepository, pRepo repository.PurchaseRepository, rxRepo repository.PrescriptionRepository, db *gorm.DB) PurchaseService {
	return &purchaseService{
		customerRepo:     cRepo,
		purchaseRepo:     pRepo,
		prescriptionRepo: rxRepo,
		db:               db,
	}
}

// AddPurchase stores the purchase and, when given, a prescription linked to
// it, in one transaction.
func (s *purchaseService) AddPurchase(ctx context.Context, caller model.Caller, customerID uuid.UUID, purchase *model.Purchase, prescription *model.Prescription) (*PurchaseView, error) {
	if purchase == nil {
		return nil, apperr.Invalid("purchase", "required", "is required")
	}
	if err := validator.Check(purchase); err != nil {
		return nil, err
	}
	if prescription != nil {
		if err := validator.Check(prescription); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.WithTx(tx).FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		if err := requireOwner(caller, customer.AccountID, "customer"); err != nil {
			return err
		}

		purchase.ID = uuid.Nil
		purchase.CustomerID = customer.ID
		if err := s.purchaseRepo.WithTx(tx).Create(ctx, purchase); err != nil {
			return err
		}

		if prescription == nil {
			return nil
		}
		prescription.ID = uuid.Nil
		prescription.CustomerID = customer.ID
		prescription.PurchaseID = &purchase.ID
		return s.prescriptionRepo.WithTx(tx).Create(ctx, prescription)
	})
	if err != nil {
		return nil, err
	}
	return newPurchaseView(purchase, prescription), nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, caller model.Caller, id uuid.UUID) (*PurchaseView, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireCustomerOwner(caller, purchase.Customer, "purchase"); err != nil {
		return nil, err
	}

	linked, err := s.prescriptionRepo.FindByPurchase(ctx, purchase.ID)
	if err != nil {
		return nil, err
	}
	return newPurchaseView(purchase, linked), nil
}

func (s *purchaseService) DeletePurchase(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.purchaseRepo.WithTx(tx)
		purchase, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireCustomerOwner(caller, purchase.Customer, "purchase"); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func (s *purchaseService) DeletePrescription(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	prescription, err := s.prescriptionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireCustomerOwner(caller, prescription.Customer, "prescription"); err != nil {
		return err
	}
	return s.prescriptionRepo.Delete(ctx, id)
}

func newPurchaseView(purchase *model.Purchase, prescription *model.Prescription) *PurchaseView {
	return &PurchaseView{
		Purchase:     purchase,
		Prescription: prescription,
		TotalCost:    purchase.TotalCost().StringFixed(2),
	}
}
