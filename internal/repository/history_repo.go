package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optistore/internal/model"
)

// HistoryRepository only appends and reads; history rows are never updated.
type HistoryRepository interface {
	WithTx(tx *gorm.DB) HistoryRepository
	Append(ctx context.Context, entry *model.CustomerHistory) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CustomerHistory, error)
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) WithTx(tx *gorm.DB) HistoryRepository {
	return &historyRepo{tx}
}

func (r *historyRepo) Append(ctx context.Context, entry *model.CustomerHistory) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, "customer history")
}

// ListByCustomer returns newest first.
func (r *historyRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CustomerHistory, error) {
	var entries []model.CustomerHistory
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("date DESC").Find(&entries).Error
	return entries, err
}
