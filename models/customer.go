package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BuyerSpeed tags how soon a customer tends to buy. The vocabulary is fixed
// at three values; lower rank means higher outreach priority.
type BuyerSpeed string

const (
	BuyerFast          BuyerSpeed = "Fast"
	BuyerFrequent      BuyerSpeed = "Frequent"
	BuyerWindowShopper BuyerSpeed = "WindowShopper"
)

var BuyerSpeeds = []BuyerSpeed{BuyerFast, BuyerFrequent, BuyerWindowShopper}

func (b BuyerSpeed) Rank() int {
	for i, s := range BuyerSpeeds {
		if s == b {
			return i
		}
	}
	return len(BuyerSpeeds)
}

func (b BuyerSpeed) Label() string {
	switch b {
	case BuyerFast:
		return "Fast Buyer"
	case BuyerFrequent:
		return "Frequent Buyer"
	case BuyerWindowShopper:
		return "Window Shopper"
	default:
		return ""
	}
}

func ParseBuyerSpeed(s string) (BuyerSpeed, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	for _, b := range BuyerSpeeds {
		if strings.EqualFold(string(b), s) {
			return b, true
		}
	}
	return "", false
}

var PreferenceTags = []string{
	"Silk", "Cotton", "Banarasi", "Fancy", "Designer",
	"Bridal", "Pastels", "Bright Colors", "Handloom", "Lightweight",
}

func IsPreferenceTag(tag string) bool {
	for _, t := range PreferenceTags {
		if t == tag {
			return true
		}
	}
	return false
}

// TogglePreference removes tag when present and appends it otherwise. The
// input slice is not modified.
func TogglePreference(prefs []string, tag string) []string {
	out := make([]string, 0, len(prefs)+1)
	found := false
	for _, p := range prefs {
		if p == tag {
			found = true
			continue
		}
		out = append(out, p)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}

type Customer struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	Name        string                      `gorm:"not null" json:"name"`
	Phone       string                      `gorm:"not null" json:"phone"`
	Address     string                      `json:"address"`
	StyleNotes  string                      `gorm:"type:text" json:"styleNotes"`
	BuyerSpeed  BuyerSpeed                  `gorm:"type:varchar(20)" json:"buyerSpeed"`
	Preferences datatypes.JSONSlice[string] `json:"preferences"`

	Photos []CustomerPhoto `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// PhoneDigits strips every non-digit, the form WhatsApp expects.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type CustomerPhoto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	ObjectKey   string    `gorm:"not null" json:"-"`
	PhotoURL    string    `gorm:"not null" json:"photoUrl"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *CustomerPhoto) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// DomesticCities are the cities recognised when scanning an address.
var DomesticCities = []string{"Bangalore", "Chennai", "Hyderabad", "Vellore", "Madurai"}
