package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"optistore/internal/apperr"
	"optistore/internal/model"
)

// requireCaller rejects anonymous callers.
func requireCaller(caller model.Caller) error {
	if caller.AccountID == uuid.Nil {
		return fmt.Errorf("%w: no authenticated account", apperr.ErrPermissionDenied)
	}
	return nil
}

// requireOwner checks that caller owns a row whose owning account is ownerID.
func requireOwner(caller model.Caller, ownerID uuid.UUID, entity string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !caller.Owns(ownerID) {
		return apperr.Forbidden(entity)
	}
	return nil
}

// requireCustomerOwner is requireOwner for rows owned through a customer.
// customer must be loaded.
func requireCustomerOwner(caller model.Caller, customer *model.Customer, entity string) error {
	if customer == nil {
		return apperr.NotFound(entity + " customer")
	}
	return requireOwner(caller, customer.AccountID, entity)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
