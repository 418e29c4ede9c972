package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles the UUID primary key and timestamps shared by every entity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a fresh UUID unless the caller already chose one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// Caller identifies the account on whose behalf an operation runs. It is
// passed explicitly into every store and query call.
type Caller struct {
	AccountID uuid.UUID
	Username  string
}

// Owns reports whether the caller is the owning account.
func (c Caller) Owns(accountID uuid.UUID) bool {
	return c.AccountID != uuid.Nil && c.AccountID == accountID
}

// OwnsPtr is Owns for nullable owner columns.
func (c Caller) OwnsPtr(accountID *uuid.UUID) bool {
	return accountID != nil && c.Owns(*accountID)
}
