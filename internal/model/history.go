package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrHistoryImmutable = errors.New("customer history entries are append-only")

// HistoryDetail is the audit payload. Actor and Message are always written by
// the recorder; Extra is open for audit-only metadata.
type HistoryDetail struct {
	Actor   string         `json:"actor,omitempty"`
	Message string         `json:"message,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// CustomerHistory is an append-only audit row.
type CustomerHistory struct {
	ID          uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  uuid.UUID                         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Date        time.Time                         `gorm:"not null;index" json:"date"`
	Description string                            `gorm:"type:varchar(255);not null" json:"description"`
	Detail      datatypes.JSONType[HistoryDetail] `json:"details"`
}

func (CustomerHistory) TableName() string {
	return "customer_histories"
}

func (h *CustomerHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Date.IsZero() {
		h.Date = time.Now()
	}
	return
}

// BeforeUpdate rejects every update path.
func (h *CustomerHistory) BeforeUpdate(tx *gorm.DB) (err error) {
	return ErrHistoryImmutable
}
