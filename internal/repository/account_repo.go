package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optistore/internal/model"
)

type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	Create(ctx context.Context, account *model.Account) error
	UpdatePassword(ctx context.Context, accountID uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(ctx context.Context, accountID uuid.UUID, version string) error
	UpdateLastLogin(ctx context.Context, accountID uuid.UUID, at time.Time) error
}

type accountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db}
}

func (r *accountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

func (r *accountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, translate(err, "account")
	}
	return &account, nil
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	return translate(r.db.WithContext(ctx).Create(account).Error, "account")
}

func (r *accountRepo) UpdatePassword(ctx context.Context, accountID uuid.UUID, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", accountID).Update("password", hashedPassword).Error
}

func (r *accountRepo) UpdateTokenVersion(ctx context.Context, accountID uuid.UUID, version string) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", accountID).Update("token_version", version).Error
}

func (r *accountRepo) UpdateLastLogin(ctx context.Context, accountID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", accountID).Update("last_login_at", at).Error
}
