// services/thank_you_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sareeledger-backend/clients"
	"sareeledger-backend/logger"
	"sareeledger-backend/models"
)

const (
	ThankYouStatusLink   = "link"
	ThankYouStatusSent   = "sent"
	ThankYouStatusFailed = "failed"

	channelWhatsAppLink = "whatsapp_link"
	channelTwilio       = "twilio"
)

// ThankYouOffer is what the client shows after a sale is recorded. The user
// may open the link or skip it; either way the sale stands.
type ThankYouOffer struct {
	CustomerID   uuid.UUID `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Phone        string    `json:"phone"`
	Message      string    `json:"message"`
	Link         string    `json:"link"`
}

type ThankYouResult struct {
	Offer    ThankYouOffer `json:"offer"`
	Status   string        `json:"status"`
	Channel  string        `json:"channel"`
	SID      string        `json:"sid,omitempty"`
	ErrorMsg string        `json:"error,omitempty"`
}

type ThankYouService struct {
	db        *gorm.DB
	settings  *SettingsService
	messenger clients.Messenger
	log       *logger.Logger
	now       func() time.Time
}

func NewThankYouService(db *gorm.DB, settings *SettingsService, messenger clients.Messenger, log *logger.Logger) *ThankYouService {
	return &ThankYouService{
		db:        db,
		settings:  settings,
		messenger: messenger,
		log:       log.With("service", "ThankYouService"),
		now:       time.Now,
	}
}

// Offer builds the thank-you prompt for a sale. It returns nil when the sale
// is a walk-in, the customer no longer exists, or no phone is on file.
func (s *ThankYouService) Offer(ctx context.Context, userID uuid.UUID, sale models.Sale) (*ThankYouOffer, error) {
	if sale.CustomerID == nil {
		return nil, nil
	}
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, *sale.CustomerID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("load customer", err)
	}
	digits := models.PhoneDigits(customer.Phone)
	if digits == "" {
		return nil, nil
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	message := models.RenderThankYou(settings.ThankYouTemplate, customer.Name)
	return &ThankYouOffer{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Phone:        digits,
		Message:      message,
		Link:         clients.WhatsAppLink(digits, message),
	}, nil
}

// Send re-offers the thank-you for an existing sale and, when asked and
// configured, delivers it server-side. Delivery problems are reported in the
// result, never as an error, and never touch the sale.
func (s *ThankYouService) Send(ctx context.Context, userID, saleID uuid.UUID, deliver bool) (*ThankYouResult, error) {
	var sale models.Sale
	err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, saleID).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Sale not found")
	}
	if err != nil {
		return nil, persistErr("load sale", err)
	}

	offer, err := s.Offer(ctx, userID, sale)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, invalid("This sale has no customer with a phone number on file.")
	}

	result := &ThankYouResult{Offer: *offer, Status: ThankYouStatusLink, Channel: channelWhatsAppLink}
	if deliver && s.messenger.Enabled() {
		result.Channel = channelTwilio
		sid, sendErr := s.messenger.SendWhatsApp(offer.Phone, offer.Message)
		if sendErr != nil {
			result.Status = ThankYouStatusFailed
			result.ErrorMsg = sendErr.Error()
		} else {
			result.Status = ThankYouStatusSent
			result.SID = sid
		}
	}

	entry := models.ThankYouLog{
		UserID:       userID,
		SaleID:       sale.ID,
		CustomerID:   offer.CustomerID,
		Message:      offer.Message,
		Status:       result.Status,
		Channel:      result.Channel,
		ErrorMessage: result.ErrorMsg,
		SentAt:       s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn("failed to log thank-you", "sale_id", sale.ID, "error", err)
	}
	return result, nil
}
