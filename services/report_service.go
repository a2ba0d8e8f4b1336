// services/report_service.go
package services

import (
	"context"
	"iter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sareeledger-backend/analytics"
	"sareeledger-backend/models"
	"sareeledger-backend/utils"
)

var ErrNoSales = notFound("No sales data for this month")

// LedgerRow is one sale as it appears in the monthly ledger.
type LedgerRow struct {
	Date         models.Date     `json:"date"`
	CustomerName string          `json:"customerName"`
	SareeType    string          `json:"sareeType"`
	SareePrice   decimal.Decimal `json:"sareePrice"`
	Quantity     int             `json:"quantity"`
	Tips         decimal.Decimal `json:"tips"`
	Commission   decimal.Decimal `json:"commission"`
	Total        decimal.Decimal `json:"total"`
	PaymentMode  string          `json:"paymentMode"`
}

// Ledger is the monthly report: the month's sales joined with customer names
// plus a city rollup of the same sales.
type Ledger struct {
	Month  models.YearMonth      `json:"-"`
	Totals analytics.MonthTotals `json:"totals"`
	sales  []models.SaleView
	cities []analytics.CityTotal
}

// SaleRows yields one row per sale in date order. Every call starts over.
func (l *Ledger) SaleRows() iter.Seq[LedgerRow] {
	return func(yield func(LedgerRow) bool) {
		for _, s := range l.sales {
			row := LedgerRow{
				Date:         s.SaleDate,
				CustomerName: s.CustomerName,
				SareeType:    s.SareeType,
				SareePrice:   s.SareePrice,
				Quantity:     s.Quantity,
				Tips:         s.Tips,
				Commission:   s.Commission,
				Total:        s.Total,
				PaymentMode:  string(s.PaymentMode),
			}
			if !yield(row) {
				return
			}
		}
	}
}

// CityRows yields the rollup, highest total first.
func (l *Ledger) CityRows() iter.Seq[analytics.CityTotal] {
	return func(yield func(analytics.CityTotal) bool) {
		for _, c := range l.cities {
			if !yield(c) {
				return
			}
		}
	}
}

func (l *Ledger) Len() int { return len(l.sales) }

// LedgerPreview is the JSON rendering of a ledger, amounts formatted for
// display.
type LedgerPreview struct {
	Month  string                `json:"month"`
	Totals analytics.MonthTotals `json:"totals"`
	Rows   []PreviewRow          `json:"rows"`
	Cities []PreviewCity         `json:"cities"`
}

type PreviewRow struct {
	LedgerRow
	TotalDisplay string `json:"totalDisplay"`
}

type PreviewCity struct {
	analytics.CityTotal
	TotalDisplay string `json:"totalDisplay"`
}

func (l *Ledger) Preview() LedgerPreview {
	out := LedgerPreview{Month: l.Month.String(), Totals: l.Totals, Rows: []PreviewRow{}, Cities: []PreviewCity{}}
	for row := range l.SaleRows() {
		out.Rows = append(out.Rows, PreviewRow{LedgerRow: row, TotalDisplay: utils.FormatINR(row.Total)})
	}
	for city := range l.CityRows() {
		out.Cities = append(out.Cities, PreviewCity{CityTotal: city, TotalDisplay: utils.FormatINR(city.Total)})
	}
	return out
}

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Ledger assembles the report for one calendar month. A month without sales
// yields ErrNoSales.
func (s *ReportService) Ledger(ctx context.Context, userID uuid.UUID, month models.YearMonth) (*Ledger, error) {
	sales, err := salesBetween(ctx, s.db, userID, month.First(), month.Last())
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, ErrNoSales
	}

	names, err := customerNames(ctx, s.db, userID, sales)
	if err != nil {
		return nil, err
	}
	views := make([]models.SaleView, len(sales))
	for i, sale := range sales {
		views[i] = models.SaleView{Sale: sale, CustomerName: models.CustomerLabel(sale.CustomerID, names)}
	}

	var customers []models.Customer
	if err := s.db.WithContext(ctx).Select("id", "address").Where("user_id = ?", userID).Find(&customers).Error; err != nil {
		return nil, persistErr("load customers", err)
	}

	return &Ledger{
		Month:  month,
		Totals: analytics.MonthlyAggregate(sales, month),
		sales:  views,
		cities: analytics.CityRollup(customers, sales),
	}, nil
}

// Cities rolls up lifetime spend for every customer by city.
func (s *ReportService) Cities(ctx context.Context, userID uuid.UUID) ([]analytics.CityTotal, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).Select("id", "address").Where("user_id = ?", userID).Find(&customers).Error; err != nil {
		return nil, persistErr("load customers", err)
	}
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Select("id", "customer_id", "total").
		Where("user_id = ? AND customer_id IS NOT NULL", userID).
		Find(&sales).Error
	if err != nil {
		return nil, persistErr("load sales", err)
	}
	return analytics.CityRollup(customers, sales), nil
}

// MerchantsWithSales lists owners that recorded at least one sale in the
// month.
func (s *ReportService) MerchantsWithSales(ctx context.Context, month models.YearMonth) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Sale{}).
		Distinct("user_id").
		Where("sale_date >= ? AND sale_date <= ?", month.First(), month.Last()).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, persistErr("list merchants", err)
	}
	return ids, nil
}
