package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optistore/internal/model"
)

type PrescriptionRepository interface {
	WithTx(tx *gorm.DB) PrescriptionRepository
	Create(ctx context.Context, prescription *model.Prescription) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
	FindByPurchase(ctx context.Context, purchaseID uuid.UUID) (*model.Prescription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type prescriptionRepo struct {
	db *gorm.DB
}

func NewPrescriptionRepo(db *gorm.DB) PrescriptionRepository {
	return &prescriptionRepo{db}
}

func (r *prescriptionRepo) WithTx(tx *gorm.DB) PrescriptionRepository {
	return &prescriptionRepo{tx}
}

func (r *prescriptionRepo) Create(ctx context.Context, prescription *model.Prescription) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(prescription).Error, "prescription")
}

func (r *prescriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var prescription model.Prescription
	if err := r.db.WithContext(ctx).Preload("Customer").First(&prescription, "id = ?", id).Error; err != nil {
		return nil, translate(err, "prescription")
	}
	return &prescription, nil
}

// FindByPurchase returns the prescription recorded with the purchase, or nil
// when there is none.
func (r *prescriptionRepo) FindByPurchase(ctx context.Context, purchaseID uuid.UUID) (*model.Prescription, error) {
	var prescriptions []model.Prescription
	err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("created_at ASC").
		Limit(1).
		Find(&prescriptions).Error
	if err != nil || len(prescriptions) == 0 {
		return nil, err
	}
	return &prescriptions[0], nil
}

func (r *prescriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Prescription{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "prescription")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "prescription")
	}
	return nil
}
