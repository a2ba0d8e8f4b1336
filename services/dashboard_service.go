package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sareeledger-backend/analytics"
	"sareeledger-backend/models"
)

type Dashboard struct {
	Date     models.Date           `json:"date"`
	Month    string                `json:"month"`
	Today    decimal.Decimal       `json:"today"`
	Monthly  analytics.MonthTotals `json:"monthly"`
	Weekly   []analytics.DayTotal  `json:"weekly"`
	Goal     decimal.Decimal       `json:"goal"`
	Progress float64               `json:"progress"`
}

type DashboardService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewDashboardService(db *gorm.DB, settings *SettingsService) *DashboardService {
	return &DashboardService{db: db, settings: settings}
}

// Build fetches the one window covering both the reference month and the
// reference week, then derives every figure from that fetch.
func (s *DashboardService) Build(ctx context.Context, userID uuid.UUID, ref models.Date) (*Dashboard, error) {
	month := ref.YearMonth()
	weekStart := analytics.WeekStart(ref)
	weekEnd := weekStart.AddDays(6)

	from, to := month.First(), month.Last()
	if weekStart.Before(from.Time) {
		from = weekStart
	}
	if weekEnd.After(to.Time) {
		to = weekEnd
	}

	sales, err := salesBetween(ctx, s.db, userID, from, to)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	monthly := analytics.MonthlyAggregate(sales, month)
	return &Dashboard{
		Date:     ref,
		Month:    month.String(),
		Today:    analytics.DailyTotal(sales, ref),
		Monthly:  monthly,
		Weekly:   analytics.WeeklySeries(sales, ref),
		Goal:     settings.MonthlyGoal,
		Progress: analytics.ProgressToGoal(monthly.Total, settings.MonthlyGoal),
	}, nil
}
