// services/customer_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sareeledger-backend/analytics"
	"sareeledger-backend/clients"
	"sareeledger-backend/logger"
	"sareeledger-backend/models"
)

type CustomerInput struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Address     string   `json:"address"`
	StyleNotes  string   `json:"styleNotes"`
	BuyerSpeed  string   `json:"buyerSpeed"`
	Preferences []string `json:"preferences"`
}

// CustomerSummary is a customer with lifetime figures derived from sales.
type CustomerSummary struct {
	models.Customer
	analytics.CustomerStats
}

type CustomerListOptions struct {
	Query    string
	Priority bool
}

type CustomerService struct {
	db     *gorm.DB
	locker clients.RecordLocker
	photos *PhotoService
	log    *logger.Logger
}

func NewCustomerService(db *gorm.DB, locker clients.RecordLocker, photos *PhotoService, log *logger.Logger) *CustomerService {
	return &CustomerService{
		db:     db,
		locker: locker,
		photos: photos,
		log:    log.With("service", "CustomerService"),
	}
}

func (in CustomerInput) apply(c *models.Customer) error {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return invalid("Name and Phone are required.")
	}
	speed, ok := models.ParseBuyerSpeed(in.BuyerSpeed)
	if !ok {
		return invalid("Select a valid buyer speed.")
	}

	prefs := make([]string, 0, len(in.Preferences))
	for _, p := range in.Preferences {
		p = strings.TrimSpace(p)
		if !models.IsPreferenceTag(p) {
			return invalid("Unknown preference: " + p)
		}
		if !contains(prefs, p) {
			prefs = append(prefs, p)
		}
	}

	c.Name = name
	c.Phone = phone
	c.Address = strings.TrimSpace(in.Address)
	c.StyleNotes = strings.TrimSpace(in.StyleNotes)
	c.BuyerSpeed = speed
	c.Preferences = datatypes.JSONSlice[string](prefs)
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (s *CustomerService) Create(ctx context.Context, userID uuid.UUID, in CustomerInput) (*models.Customer, error) {
	customer := &models.Customer{UserID: userID}
	if err := in.apply(customer); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, persistErr("save customer", err)
	}
	return customer, nil
}

// Update replaces every editable field; id and owner stay fixed.
func (s *CustomerService) Update(ctx context.Context, userID, customerID uuid.UUID, in CustomerInput) (*models.Customer, error) {
	var edited models.Customer
	if err := in.apply(&edited); err != nil {
		return nil, err
	}

	release, err := lockRecord(ctx, s.locker, "customer", customerID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	customer, err := s.load(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	edited.ID = customer.ID
	edited.UserID = customer.UserID
	edited.CreatedAt = customer.CreatedAt
	customer = &edited
	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, persistErr("update customer", err)
	}
	return customer, nil
}

// Delete removes the customer and their photos. Sales that referenced the
// customer are left alone and later render as Unknown.
func (s *CustomerService) Delete(ctx context.Context, userID, customerID uuid.UUID) error {
	release, err := lockRecord(ctx, s.locker, "customer", customerID.String())
	if err != nil {
		return err
	}
	defer release()

	var keys []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var photos []models.CustomerPhoto
		if err := tx.Where("user_id = ? AND customer_id = ?", userID, customerID).Find(&photos).Error; err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND id = ?", userID, customerID).Delete(&models.Customer{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("Customer not found")
		}
		if err := tx.Where("user_id = ? AND customer_id = ?", userID, customerID).Delete(&models.CustomerPhoto{}).Error; err != nil {
			return err
		}
		for _, p := range photos {
			keys = append(keys, p.ObjectKey)
		}
		return nil
	})
	if err != nil {
		var uerr *UserError
		if errors.As(err, &uerr) {
			return err
		}
		return persistErr("delete customer", err)
	}

	s.photos.removeObjects(ctx, keys)
	return nil
}

func (s *CustomerService) Get(ctx context.Context, userID, customerID uuid.UUID) (*CustomerSummary, error) {
	customer, err := s.load(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerSummary{Customer: *customer, CustomerStats: stats}, nil
}

// List returns every customer ordered by name with lifetime figures attached,
// then applies the search filter and, optionally, the priority ordering.
func (s *CustomerService) List(ctx context.Context, userID uuid.UUID, opts CustomerListOptions) ([]CustomerSummary, error) {
	customers, err := s.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	customers = analytics.FilterCustomers(customers, opts.Query)
	if opts.Priority {
		customers = analytics.SortByPriority(customers)
	}

	var sales []models.Sale
	err = s.db.WithContext(ctx).
		Select("id", "customer_id", "total").
		Where("user_id = ? AND customer_id IS NOT NULL", userID).
		Find(&sales).Error
	if err != nil {
		return nil, persistErr("load sales", err)
	}
	stats := analytics.StatsByCustomer(sales)

	out := make([]CustomerSummary, len(customers))
	for i, c := range customers {
		st, ok := stats[c.ID]
		if !ok {
			st = analytics.StatsForCustomer(nil, c.ID)
		}
		out[i] = CustomerSummary{Customer: c, CustomerStats: st}
	}
	return out, nil
}

// Stats computes lifetime spend from the customer's sales. A customer with no
// sales, or one that no longer exists, reports zeros.
func (s *CustomerService) Stats(ctx context.Context, userID, customerID uuid.UUID) (analytics.CustomerStats, error) {
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND customer_id = ?", userID, customerID).
		Find(&sales).Error
	if err != nil {
		return analytics.CustomerStats{}, persistErr("load sales", err)
	}
	return analytics.StatsForCustomer(sales, customerID), nil
}

// TogglePreference flips a single preference tag and stores the result.
func (s *CustomerService) TogglePreference(ctx context.Context, userID, customerID uuid.UUID, tag string) (*models.Customer, error) {
	tag = strings.TrimSpace(tag)
	if !models.IsPreferenceTag(tag) {
		return nil, invalid("Unknown preference: " + tag)
	}

	release, err := lockRecord(ctx, s.locker, "customer", customerID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	customer, err := s.load(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	customer.Preferences = datatypes.JSONSlice[string](models.TogglePreference(customer.Preferences, tag))
	if err := s.db.WithContext(ctx).Model(customer).Update("preferences", customer.Preferences).Error; err != nil {
		return nil, persistErr("update preferences", err)
	}
	return customer, nil
}

func (s *CustomerService) all(ctx context.Context, userID uuid.UUID) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&customers).Error; err != nil {
		return nil, persistErr("list customers", err)
	}
	return customers, nil
}

func (s *CustomerService) load(ctx context.Context, userID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, customerID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Customer not found")
	}
	if err != nil {
		return nil, persistErr("load customer", err)
	}
	return &customer, nil
}
