package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Refraction is the per-eye optical measurement set. It is embedded in both
// Customer (latest known values) and Prescription (dated records).
type Refraction struct {
	SphLeft     decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"sph_left"`
	SphRight    decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"sph_right"`
	CylLeft     decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"cyl_left"`
	CylRight    decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"cyl_right"`
	AxisLeft    *int                `json:"axis_left" validate:"omitempty,min=0,max=180"`
	AxisRight   *int                `json:"axis_right" validate:"omitempty,min=0,max=180"`
	AddLeft     decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"add_left"`
	AddRight    decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"add_right"`
	VisionLeft  string              `gorm:"type:varchar(255)" json:"vision_left" validate:"max=255"`
	VisionRight string              `gorm:"type:varchar(255)" json:"vision_right" validate:"max=255"`
}

// Customer is owned by exactly one account; (account, phone) is unique.
type Customer struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_customer_account_phone,priority:1" json:"account_id"`
	Account   *Account  `gorm:"foreignKey:AccountID" json:"-" validate:"-"`

	FirstName        string     `gorm:"type:varchar(100)" json:"first_name" validate:"max=100"`
	LastName         string     `gorm:"type:varchar(100)" json:"last_name" validate:"max=100"`
	Email            string     `gorm:"type:varchar(254)" json:"email" validate:"omitempty,email"`
	Phone            *string    `gorm:"type:varchar(15);uniqueIndex:idx_customer_account_phone,priority:2" json:"phone" validate:"omitempty,max=15"`
	Address          string     `gorm:"type:text" json:"address"`
	DateOfBirth      *time.Time `gorm:"type:date" json:"date_of_birth"`
	Gender           Gender     `gorm:"type:varchar(1)" json:"gender" validate:"omitempty,oneof=M F O"`
	PrescriptionDate *time.Time `gorm:"type:date" json:"prescription_date"`
	AdditionalInfo   string     `gorm:"type:text" json:"additional_info"`

	Refraction `gorm:"embedded"`

	Purchases     []Purchase        `json:"purchases,omitempty" validate:"-"`
	Prescriptions []Prescription    `json:"prescriptions,omitempty" validate:"-"`
	History       []CustomerHistory `json:"history,omitempty" validate:"-"`
	Bills         []Bill            `json:"bills,omitempty" validate:"-"`
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// PhoneNumber returns the phone or "" when none is on file.
func (c *Customer) PhoneNumber() string {
	if c.Phone == nil {
		return ""
	}
	return strings.TrimSpace(*c.Phone)
}
