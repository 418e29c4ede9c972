package service

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"optistore/internal/model"
	"optistore/internal/repository"
)

// HistoryRecorder appends CustomerHistory rows. It always writes through the
// transaction it is given so the audit row commits or rolls back together
// with the customer change it describes.
type HistoryRecorder struct {
	repo repository.HistoryRepository
	now  func() time.Time
}

func NewHistoryRecorder(repo repository.HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, now: time.Now}
}

func (r *HistoryRecorder) Record(ctx context.Context, tx *gorm.DB, customer *model.Customer, caller model.Caller, description, message string, extra map[string]any) error {
	entry := &model.CustomerHistory{
		CustomerID:  customer.ID,
		Date:        r.now(),
		Description: description,
		Detail: datatypes.NewJSONType(model.HistoryDetail{
			Actor:   caller.Username,
			Message: message,
			Extra:   extra,
		}),
	}
	return r.repo.WithTx(tx).Append(ctx, entry)
}
