package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"optistore/internal/pricing"
)

// Inventory is one stock lot (batch) of a product. Version is bumped on every
// write so concurrent quantity changes can detect each other.
type Inventory struct {
	BaseModel
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product       *Product        `json:"product,omitempty" validate:"-"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier      *Supplier       `json:"supplier,omitempty" validate:"-"`
	BatchNumber   string          `gorm:"type:varchar(50);index" json:"batch_number" validate:"max=50"`
	Quantity      int             `gorm:"not null" json:"quantity" validate:"gte=0"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"purchase_price" validate:"gte=0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"selling_price" validate:"gte=0"`
	PurchaseDate  time.Time       `gorm:"type:date;not null" json:"purchase_date" validate:"required"`
	ExpiryDate    *time.Time      `gorm:"type:date" json:"expiry_date"`
	MfgDate       *time.Time      `gorm:"type:date" json:"mfg_date"`
	ImportDuty    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"import_duty" validate:"gte=0"`
	IsActive      bool            `gorm:"not null;index" json:"is_active"`
	Version       int             `gorm:"not null" json:"version"`
	CreatedByID   *uuid.UUID      `gorm:"type:uuid;index" json:"created_by_id"`
	CreatedBy     *Account        `json:"-" validate:"-"`
}

func (Inventory) TableName() string {
	return "inventory"
}

// TotalCost is quantity * purchase price.
func (i *Inventory) TotalCost() decimal.Decimal {
	return pricing.InventoryCost(i.Quantity, i.PurchasePrice)
}

// TotalValue is quantity * selling price.
func (i *Inventory) TotalValue() decimal.Decimal {
	return pricing.InventoryValue(i.Quantity, i.SellingPrice)
}

// IsLowStock needs Product loaded; without it the lot is never reported low.
func (i *Inventory) IsLowStock() bool {
	if i.Product == nil {
		return false
	}
	return pricing.IsLowStock(i.IsActive, i.Quantity, i.Product.ReorderLevel)
}
