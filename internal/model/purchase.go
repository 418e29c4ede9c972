package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"optistore/internal/pricing"
)

// Recognised PurchaseDetail keys. Anything else lands in Extra.
const (
	DetailLensPrice  = "lens_price"
	DetailFramePrice = "frame_price"
)

// PurchaseDetail is the typed form of a purchase's free-form details. The
// priced keys are closed; Extra keeps any other keys (lens notes, coatings,
// frame codes) untouched.
type PurchaseDetail struct {
	LensPrice  *decimal.Decimal
	FramePrice *decimal.Decimal
	Extra      map[string]any
}

func (d PurchaseDetail) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+2)
	for k, v := range d.Extra {
		out[k] = v
	}
	if d.LensPrice != nil {
		out[DetailLensPrice] = d.LensPrice
	}
	if d.FramePrice != nil {
		out[DetailFramePrice] = d.FramePrice
	}
	return json.Marshal(out)
}

func (d *PurchaseDetail) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = PurchaseDetail{}
	for k, v := range raw {
		switch k {
		case DetailLensPrice:
			p, err := decodePrice(v)
			if err != nil {
				return err
			}
			d.LensPrice = p
		case DetailFramePrice:
			p, err := decodePrice(v)
			if err != nil {
				return err
			}
			d.FramePrice = p
		default:
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return err
			}
			if d.Extra == nil {
				d.Extra = make(map[string]any)
			}
			d.Extra[k] = val
		}
	}
	return nil
}

// decodePrice treats JSON null as absent.
func decodePrice(raw json.RawMessage) (*decimal.Decimal, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return &d, nil
}

type Purchase struct {
	BaseModel
	CustomerID     uuid.UUID                          `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer       *Customer                          `json:"customer,omitempty" validate:"-"`
	ProductType    string                             `gorm:"type:varchar(50)" json:"product_type" validate:"max=50"` // spectacles, sunglasses, lenses...
	Detail         datatypes.JSONType[PurchaseDetail] `json:"details"`
	DateOfPurchase *time.Time                         `gorm:"type:date" json:"date_of_purchase"`
}

// TotalCost is lens_price + frame_price from the details.
func (p *Purchase) TotalCost() decimal.Decimal {
	d := p.Detail.Data()
	return pricing.PurchaseTotal(d.LensPrice, d.FramePrice)
}

type Prescription struct {
	BaseModel
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer  `json:"-" validate:"-"`
	PurchaseID *uuid.UUID `gorm:"type:uuid;index" json:"purchase_id,omitempty"`
	Purchase   *Purchase  `json:"-" validate:"-"`
	Refraction `gorm:"embedded"`
	Date       *time.Time `gorm:"type:date" json:"date"`
}
