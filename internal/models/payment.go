package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is the terminal record of one external payment attempt.
// ProviderPaymentID is the gateway's identifier and doubles as the
// idempotency key: the unique index rejects a second insert for the same
// external event even when two deliveries race past the lookup.
type Payment struct {
	ID                string    `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID           *string   `gorm:"type:char(36);index" json:"order_id"`
	Provider          string    `gorm:"size:50;not null" json:"provider"`
	AmountCents       int64     `gorm:"not null" json:"amount_cents"`
	Currency          string    `gorm:"size:3;default:'usd'" json:"currency"`
	Status            string    `gorm:"size:20;not null;index" json:"status"` // succeeded | failed
	ProviderPaymentID string    `gorm:"size:255;not null;uniqueIndex" json:"provider_payment_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
