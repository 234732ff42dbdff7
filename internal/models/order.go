package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID            string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID        string    `gorm:"type:char(36);not null;index" json:"user_id"`
	PurchaseType  string    `gorm:"size:20" json:"purchase_type"` // single_course | bundle
	TotalCents    int64     `gorm:"not null" json:"total_cents"`
	SubtotalCents int64     `gorm:"not null" json:"subtotal_cents"`
	Currency      string    `gorm:"size:3;default:'usd'" json:"currency"`
	Status        string    `gorm:"size:20;not null;index" json:"status"` // completed | failed
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is one purchasable unit inside an order. Exactly one of CourseID
// or BundleID is set; a bundle purchase gets a single bundle-level item and
// the per-course fan-out happens in enrollments.
type OrderItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        string    `gorm:"type:char(36);not null;index" json:"order_id"`
	CourseID       *string   `gorm:"type:char(36);index" json:"course_id,omitempty"`
	BundleID       *string   `gorm:"type:char(36);index" json:"bundle_id,omitempty"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	Quantity       int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt      time.Time `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
