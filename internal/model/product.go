package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"optistore/internal/pricing"
)

type LensType string

const (
	LensSingleVision LensType = "SV"
	LensBifocal      LensType = "BF"
	LensProgressive  LensType = "PL"
)

type FrameMaterial string

const (
	FrameAcetate  FrameMaterial = "AC"
	FrameMetal    FrameMaterial = "MT"
	FrameTitanium FrameMaterial = "TI"
)

// ProductCategory groups products. GSTRate, when set, overrides the product's
// own GST percentage in tax reports.
type ProductCategory struct {
	BaseModel
	Name    string              `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	GSTRate decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"gst_rate"`
}

type Product struct {
	BaseModel
	Name          string              `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	CategoryID    *uuid.UUID          `gorm:"type:uuid;index" json:"category_id"`
	Category      *ProductCategory    `json:"category,omitempty" validate:"-"`
	Brand         string              `gorm:"type:varchar(100)" json:"brand" validate:"max=100"`
	ModelNumber   string              `gorm:"type:varchar(50)" json:"model_number" validate:"max=50"`
	Description   string              `gorm:"type:text" json:"description"`
	Price         decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	MRP           decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"mrp"`
	GSTPercentage decimal.Decimal     `gorm:"type:decimal(5,2);not null" json:"gst_percentage" validate:"gte=0,lte=100"`
	ReorderLevel  int                 `gorm:"not null" json:"reorder_level" validate:"gte=0"`
	HSNCode       string              `gorm:"type:varchar(10)" json:"hsn_code" validate:"max=10"`
	LensType      LensType            `gorm:"type:varchar(2)" json:"lens_type" validate:"omitempty,oneof=SV BF PL"`
	FrameMaterial FrameMaterial       `gorm:"type:varchar(2)" json:"frame_material" validate:"omitempty,oneof=AC MT TI"`
	BaseCurve     decimal.NullDecimal `gorm:"type:decimal(4,2)" json:"base_curve"`
	Diameter      decimal.NullDecimal `gorm:"type:decimal(4,2)" json:"diameter"`
}

// TotalCost is the GST-inclusive price.
func (p *Product) TotalCost() decimal.Decimal {
	return pricing.ProductTotal(p.Price, p.GSTPercentage)
}

// EffectiveGSTRate prefers the category rate over the product's own.
func (p *Product) EffectiveGSTRate() decimal.Decimal {
	if p.Category != nil && p.Category.GSTRate.Valid {
		return p.Category.GSTRate.Decimal
	}
	return p.GSTPercentage
}

type PaymentTerms string

const (
	TermsCashOnDelivery PaymentTerms = "COD"
	TermsNet30          PaymentTerms = "30D"
	TermsNet60          PaymentTerms = "60D"
)

type Supplier struct {
	BaseModel
	Name          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	ContactPerson string          `gorm:"type:varchar(100)" json:"contact_person" validate:"max=100"`
	Phone         string          `gorm:"type:varchar(15)" json:"phone" validate:"max=15"`
	Email         string          `gorm:"type:varchar(254)" json:"email" validate:"omitempty,email"`
	GSTIN         string          `gorm:"column:gstin;type:varchar(15)" json:"gstin" validate:"omitempty,gstin"`
	Address       string          `gorm:"type:text" json:"address"`
	PaymentTerms  PaymentTerms    `gorm:"type:varchar(100)" json:"payment_terms" validate:"omitempty,oneof=COD 30D 60D"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"credit_limit" validate:"gte=0"`
}
