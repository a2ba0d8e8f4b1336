// services/sale_service.go
package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sareeledger-backend/clients"
	"sareeledger-backend/logger"
	"sareeledger-backend/models"
)

const (
	DefaultSaleListLimit = 50

	moneyPlaces = 2
)

// SaleInput is the sale form as submitted. Amounts stay raw until Normalize
// decides what they mean.
type SaleInput struct {
	CustomerID  string    `json:"customerId"`
	SareePrice  FormValue `json:"sareePrice"`
	Quantity    FormValue `json:"quantity"`
	Tips        FormValue `json:"tips"`
	Commission  FormValue `json:"commission"`
	SareeType   string    `json:"sareeType"`
	PaymentMode string    `json:"paymentMode"`
	SaleDate    string    `json:"saleDate"`
}

// SaleFields is a validated, normalized sale form.
type SaleFields struct {
	CustomerID  *uuid.UUID
	SareePrice  decimal.Decimal
	Quantity    int
	Tips        decimal.Decimal
	Commission  decimal.Decimal
	SareeType   string
	PaymentMode models.PaymentMode
	SaleDate    *models.Date
}

// Normalize validates in order and stops at the first problem.
func (in SaleInput) Normalize() (SaleFields, error) {
	var out SaleFields

	// amounts are held to paise, the precision of the money columns
	price, ok := in.SareePrice.Decimal()
	if !ok || !price.Round(moneyPlaces).IsPositive() {
		return out, invalid("Enter a valid price.")
	}
	qty, err := strconv.Atoi(in.Quantity.String())
	if err != nil || qty < 1 {
		return out, invalid("Enter a valid quantity.")
	}
	out.SareePrice = price.Round(moneyPlaces)
	out.Quantity = qty
	out.Tips = in.Tips.OrZero().Round(moneyPlaces)
	out.Commission = in.Commission.OrZero().Round(moneyPlaces)

	if id := strings.TrimSpace(in.CustomerID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return out, invalid("Select a valid customer.")
		}
		out.CustomerID = &parsed
	}

	mode, ok := models.NormalizePaymentMode(in.PaymentMode)
	if !ok {
		return out, invalid("Select a valid payment mode.")
	}
	out.PaymentMode = mode
	out.SareeType = strings.TrimSpace(in.SareeType)

	if s := strings.TrimSpace(in.SaleDate); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return out, invalid("Enter a valid sale date.")
		}
		out.SaleDate = &d
	}
	return out, nil
}

func (f SaleFields) apply(sale *models.Sale) {
	sale.CustomerID = f.CustomerID
	sale.SareePrice = f.SareePrice
	sale.Quantity = f.Quantity
	sale.Tips = f.Tips
	sale.Commission = f.Commission
	sale.SareeType = f.SareeType
	sale.PaymentMode = f.PaymentMode
	if f.SaleDate != nil {
		sale.SaleDate = *f.SaleDate
	}
	sale.Total = models.SaleTotal(sale.SareePrice, sale.Quantity, sale.Tips)
}

type SaleService struct {
	db       *gorm.DB
	locker   clients.RecordLocker
	thankYou *ThankYouService
	log      *logger.Logger
	now      func() time.Time
}

func NewSaleService(db *gorm.DB, locker clients.RecordLocker, thankYou *ThankYouService, log *logger.Logger) *SaleService {
	return &SaleService{
		db:       db,
		locker:   locker,
		thankYou: thankYou,
		log:      log.With("service", "SaleService"),
		now:      time.Now,
	}
}

// Record validates and stores a new sale. When the sale belongs to a customer
// with a phone on file, a thank-you offer is returned alongside it. Building
// the offer is best-effort and never undoes the stored sale.
func (s *SaleService) Record(ctx context.Context, userID uuid.UUID, in SaleInput) (*models.Sale, *ThankYouOffer, error) {
	fields, err := in.Normalize()
	if err != nil {
		return nil, nil, err
	}

	if fields.CustomerID != nil {
		if err := s.requireCustomer(ctx, userID, *fields.CustomerID); err != nil {
			return nil, nil, err
		}
	}

	sale := &models.Sale{UserID: userID, SaleDate: models.DateOf(s.now())}
	fields.apply(sale)

	if err := s.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, nil, persistErr("save sale", err)
	}

	offer, err := s.thankYou.Offer(ctx, userID, *sale)
	if err != nil {
		s.log.Warn("thank-you offer unavailable", "sale_id", sale.ID, "error", err)
		offer = nil
	}
	return sale, offer, nil
}

// Update replaces every mutable field of an existing sale. The id, owner and
// creation time stay fixed, and the sale date is kept unless a new one is
// given.
func (s *SaleService) Update(ctx context.Context, userID, saleID uuid.UUID, in SaleInput) (*models.Sale, error) {
	fields, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	release, err := lockRecord(ctx, s.locker, "sale", saleID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	var sale models.Sale
	if err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, saleID).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Sale not found")
		}
		return nil, persistErr("load sale", err)
	}

	// a reference left dangling by a customer delete may be kept as is
	if fields.CustomerID != nil && (sale.CustomerID == nil || *sale.CustomerID != *fields.CustomerID) {
		if err := s.requireCustomer(ctx, userID, *fields.CustomerID); err != nil {
			return nil, err
		}
	}

	fields.apply(&sale)
	if err := s.db.WithContext(ctx).Save(&sale).Error; err != nil {
		return nil, persistErr("update sale", err)
	}
	return &sale, nil
}

// requireCustomer checks that a newly referenced customer belongs to the
// merchant.
func (s *SaleService) requireCustomer(ctx context.Context, userID, customerID uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("user_id = ? AND id = ?", userID, customerID).
		Count(&count).Error
	if err != nil {
		return persistErr("check customer", err)
	}
	if count == 0 {
		return invalid("Select a valid customer.")
	}
	return nil
}

func (s *SaleService) Delete(ctx context.Context, userID, saleID uuid.UUID) error {
	release, err := lockRecord(ctx, s.locker, "sale", saleID.String())
	if err != nil {
		return err
	}
	defer release()

	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, saleID).Delete(&models.Sale{})
	if res.Error != nil {
		return persistErr("delete sale", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Sale not found")
	}
	return nil
}

func (s *SaleService) Get(ctx context.Context, userID, saleID uuid.UUID) (*models.SaleView, error) {
	var sale models.Sale
	if err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, saleID).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Sale not found")
		}
		return nil, persistErr("load sale", err)
	}
	views, err := s.withNames(ctx, userID, []models.Sale{sale})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns the most recent sales, newest sale date first, with customer
// names resolved. A limit outside 1..500 falls back to the default.
func (s *SaleService) List(ctx context.Context, userID uuid.UUID, limit int) ([]models.SaleView, error) {
	if limit <= 0 || limit > 500 {
		limit = DefaultSaleListLimit
	}
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sale_date DESC").Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, persistErr("list sales", err)
	}
	return s.withNames(ctx, userID, sales)
}

// SalesBetween fetches the sales dated within [from, to], both inclusive.
func (s *SaleService) SalesBetween(ctx context.Context, userID uuid.UUID, from, to models.Date) ([]models.Sale, error) {
	return salesBetween(ctx, s.db, userID, from, to)
}

func salesBetween(ctx context.Context, db *gorm.DB, userID uuid.UUID, from, to models.Date) ([]models.Sale, error) {
	var sales []models.Sale
	err := db.WithContext(ctx).
		Where("user_id = ? AND sale_date >= ? AND sale_date <= ?", userID, from, to).
		Order("sale_date ASC").Order("created_at ASC").
		Find(&sales).Error
	if err != nil {
		return nil, persistErr("load sales", err)
	}
	return sales, nil
}

func (s *SaleService) withNames(ctx context.Context, userID uuid.UUID, sales []models.Sale) ([]models.SaleView, error) {
	names, err := customerNames(ctx, s.db, userID, sales)
	if err != nil {
		return nil, err
	}
	views := make([]models.SaleView, len(sales))
	for i, sale := range sales {
		views[i] = models.SaleView{Sale: sale, CustomerName: models.CustomerLabel(sale.CustomerID, names)}
	}
	return views, nil
}

// customerNames resolves every referenced customer in a single IN lookup.
// Customers that no longer exist are simply absent from the result.
func customerNames(ctx context.Context, db *gorm.DB, userID uuid.UUID, sales []models.Sale) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, sale := range sales {
		if sale.CustomerID == nil {
			continue
		}
		if _, ok := seen[*sale.CustomerID]; ok {
			continue
		}
		seen[*sale.CustomerID] = struct{}{}
		ids = append(ids, *sale.CustomerID)
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []models.Customer
	err := db.WithContext(ctx).
		Select("id", "name").
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, persistErr("resolve customer names", err)
	}
	for _, c := range rows {
		names[c.ID] = c.Name
	}
	return names, nil
}
