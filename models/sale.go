package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMode string

const (
	PaymentCash PaymentMode = "cash"
	PaymentUPI  PaymentMode = "upi"
	PaymentCard PaymentMode = "card"
)

var PaymentModes = []PaymentMode{PaymentCash, PaymentUPI, PaymentCard}

// NormalizePaymentMode lowercases the mode and falls back to cash for blank
// input. ok is false for anything outside the vocabulary.
func NormalizePaymentMode(s string) (PaymentMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentCash, true
	}
	for _, m := range PaymentModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

var SareeTypes = []string{"Silk", "Cotton", "Banarasi", "Fancy", "Designer"}

const (
	WalkInLabel  = "Walk-in"
	UnknownLabel = "Unknown"
)

type Sale struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customerId"`

	SareePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sareePrice"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	Tips       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tips"`
	Commission decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"commission"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	SaleDate    Date        `gorm:"index;not null" json:"saleDate"`
	SareeType   string      `gorm:"type:varchar(40)" json:"sareeType"`
	PaymentMode PaymentMode `gorm:"type:varchar(10);not null;default:'cash'" json:"paymentMode"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Recompute total before every write so the stored figure can never drift.
func (s *Sale) BeforeSave(tx *gorm.DB) (err error) {
	s.Total = SaleTotal(s.SareePrice, s.Quantity, s.Tips)
	return
}

// SaleTotal is the customer-facing bill. Commission is a seller incentive and
// is never part of it.
func SaleTotal(price decimal.Decimal, quantity int, tips decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Add(tips)
}

// SaleView is a sale with its customer name resolved for display.
type SaleView struct {
	Sale
	CustomerName string `json:"customerName"`
}

// CustomerLabel resolves the display name for a sale. A nil reference is a
// walk-in; a reference that no longer resolves is shown as Unknown.
func CustomerLabel(customerID *uuid.UUID, names map[uuid.UUID]string) string {
	if customerID == nil {
		return WalkInLabel
	}
	if name, ok := names[*customerID]; ok && name != "" {
		return name
	}
	return UnknownLabel
}
