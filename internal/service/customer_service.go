package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optistore/internal/model"
	"optistore/internal/repository"
	"optistore/pkg/validator"
)

const (
	HistoryCustomerAdded   = "Customer added."
	HistoryCustomerUpdated = "Customer details updated."
)

type CustomerService interface {
	Create(ctx context.Context, caller model.Caller, req *model.Customer) (*model.Customer, error)
	Update(ctx context.Context, caller model.Caller, id uuid.UUID, req *model.Customer) (*model.Customer, error)
	Get(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Customer, error)
	Details(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Customer, error)
	Search(ctx context.Context, caller model.Caller, term string) ([]model.Customer, error)
	Count(ctx context.Context, caller model.Caller) (int64, error)
	Delete(ctx context.Context, caller model.Caller, id uuid.UUID) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	history      *HistoryRecorder
	db           *gorm.DB
}

func NewCustomerService(cRepo repository.CustomerRepository, history *HistoryRecorder, db *gorm.DB) CustomerService {
	return &customerService{
		customerRepo: cRepo,
		history:      history,
		db:           db,
	}
}

func (s *customerService) Create(ctx context.Context, caller model.Caller, req *model.Customer) (*model.Customer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	customer := &model.Customer{AccountID: caller.AccountID}
	applyCustomerForm(customer, req)
	if err := validator.Check(customer); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.customerRepo.WithTx(tx).Create(ctx, customer); err != nil {
			return err
		}
		return s.history.Record(ctx, tx, customer, caller, HistoryCustomerAdded,
			fmt.Sprintf("Customer added by %s.", caller.Username), nil)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, caller model.Caller, id uuid.UUID, req *model.Customer) (*model.Customer, error) {
	var updated *model.Customer

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.customerRepo.WithTx(tx)
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(caller, existing.AccountID, "customer"); err != nil {
			return err
		}

		applyCustomerForm(existing, req)
		if err := validator.Check(existing); err != nil {
			return err
		}
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		if err := s.history.Record(ctx, tx, existing, caller, HistoryCustomerUpdated,
			fmt.Sprintf("Customer details updated by %s.", caller.Username), nil); err != nil {
			return err
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *customerService) Get(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, customer.AccountID, "customer"); err != nil {
		return nil, err
	}
	return customer, nil
}

// Details returns the customer with history, purchases, prescriptions and bills.
func (s *customerService) Details(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, customer.AccountID, "customer"); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Search(ctx context.Context, caller model.Caller, term string) ([]model.Customer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.customerRepo.Search(ctx, caller.AccountID, term)
}

func (s *customerService) Count(ctx context.Context, caller model.Caller) (int64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	return s.customerRepo.CountByAccount(ctx, caller.AccountID)
}

func (s *customerService) Delete(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.customerRepo.WithTx(tx)
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(caller, existing.AccountID, "customer"); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// applyCustomerForm copies the editable fields. Ownership, id and
// timestamps are never taken from the request.
func applyCustomerForm(dst, src *model.Customer) {
	dst.FirstName = strings.TrimSpace(src.FirstName)
	dst.LastName = strings.TrimSpace(src.LastName)
	dst.Email = strings.TrimSpace(src.Email)
	dst.Phone = normalizePhone(src.Phone)
	dst.Address = src.Address
	dst.DateOfBirth = src.DateOfBirth
	dst.Gender = src.Gender
	dst.PrescriptionDate = src.PrescriptionDate
	dst.AdditionalInfo = src.AdditionalInfo
	dst.Refraction = src.Refraction
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	p := strings.TrimSpace(*phone)
	if p == "" {
		return nil
	}
	return &p
}
