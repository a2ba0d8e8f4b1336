package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sareeledger-backend/models"
)

type SettingsService struct {
	db          *gorm.DB
	defaultGoal decimal.Decimal
}

func NewSettingsService(db *gorm.DB, defaultGoal decimal.Decimal) *SettingsService {
	return &SettingsService{db: db, defaultGoal: defaultGoal}
}

type SettingsInput struct {
	ShopName         *string    `json:"shopName"`
	MonthlyGoal      *FormValue `json:"monthlyGoal"`
	ThankYouTemplate *string    `json:"thankYouTemplate"`
}

// Get returns the stored settings, or defaults for a merchant who never saved
// any.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (models.MerchantSettings, error) {
	var settings models.MerchantSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(userID, s.defaultGoal), nil
	}
	if err != nil {
		return models.MerchantSettings{}, persistErr("load settings", err)
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, in SettingsInput) (models.MerchantSettings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return settings, err
	}

	if in.ShopName != nil {
		settings.ShopName = strings.TrimSpace(*in.ShopName)
	}
	if in.MonthlyGoal != nil {
		goal, ok := in.MonthlyGoal.Decimal()
		if !ok || !goal.IsPositive() {
			return settings, invalid("Enter a valid monthly goal.")
		}
		settings.MonthlyGoal = goal
	}
	if in.ThankYouTemplate != nil {
		tmpl := strings.TrimSpace(*in.ThankYouTemplate)
		if tmpl == "" {
			tmpl = models.DefaultThankYouTemplate
		}
		settings.ThankYouTemplate = tmpl
	}

	if err := s.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return settings, persistErr("save settings", err)
	}
	return settings, nil
}
