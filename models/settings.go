package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CustomerNamePlaceholder = "[CustomerName]"
	DefaultThankYouTemplate = "Thank you for shopping with us, [CustomerName]! Hope you love your new saree. 🙏✨"
)

// MerchantSettings holds the per-user knobs of the dashboard and messaging.
type MerchantSettings struct {
	UserID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"userId"`
	ShopName         string          `json:"shopName"`
	MonthlyGoal      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monthlyGoal"`
	ThankYouTemplate string          `gorm:"type:text;not null" json:"thankYouTemplate"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func DefaultSettings(userID uuid.UUID, goal decimal.Decimal) MerchantSettings {
	return MerchantSettings{
		UserID:           userID,
		MonthlyGoal:      goal,
		ThankYouTemplate: DefaultThankYouTemplate,
	}
}

// RenderThankYou fills the customer placeholder of a template.
func RenderThankYou(template, customerName string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultThankYouTemplate
	}
	return strings.ReplaceAll(template, CustomerNamePlaceholder, customerName)
}
