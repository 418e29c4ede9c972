package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"optistore/internal/pricing"
)

type Sale struct {
	BaseModel
	Date        time.Time       `gorm:"type:date;not null;index" json:"date" validate:"required"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product     *Product        `json:"product,omitempty" validate:"-"`
	CustomerID  *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	Customer    *Customer       `json:"customer,omitempty" validate:"-"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"gt=0"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"` // Always quantity * price
	CreatedByID *uuid.UUID      `gorm:"type:uuid;index" json:"created_by_id"`
	CreatedBy   *Account        `json:"-" validate:"-"`
}

// BeforeSave overwrites Total on every create and save, whatever the caller
// set, and pins Date to midnight UTC so date-range filters compare cleanly.
func (s *Sale) BeforeSave(tx *gorm.DB) (err error) {
	s.Total = pricing.SaleTotal(s.Quantity, s.Price)
	s.Date = DateOnly(s.Date)
	return
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
	PaymentUPI  PaymentMethod = "UPI"
)

type Bill struct {
	BaseModel
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer      *Customer       `json:"customer,omitempty" validate:"-"`
	Products      []Product       `gorm:"many2many:bill_products;" json:"products" validate:"-"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Discount      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount" validate:"gte=0,lte=999.99"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(4);not null" json:"payment_method" validate:"required,oneof=CASH CARD UPI"`
	CreatedByID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy     *Account        `json:"-" validate:"-"`
}

// Subtotal sums the prices of the attached products.
func (b *Bill) Subtotal() decimal.Decimal {
	return pricing.BillSubtotal(b.prices())
}

// Recalculate sets Total from the attached products and the discount.
func (b *Bill) Recalculate() {
	b.Total = pricing.BillTotal(b.prices(), b.Discount)
}

func (b *Bill) prices() []decimal.Decimal {
	prices := make([]decimal.Decimal, len(b.Products))
	for i, p := range b.Products {
		prices[i] = p.Price
	}
	return prices
}
