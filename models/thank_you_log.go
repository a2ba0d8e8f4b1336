// models/thank_you_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ThankYouLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	SaleID       uuid.UUID `gorm:"type:uuid;index;not null" json:"saleId"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"`  // link, sent, failed
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp_link, twilio
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt       time.Time `json:"sentAt"`
}

func (r *ThankYouLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
