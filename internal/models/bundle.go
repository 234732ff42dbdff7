package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bundle struct {
	ID          string         `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	PriceCents  int64          `gorm:"not null" json:"price_cents"`
	Currency    string         `gorm:"size:3;default:'usd'" json:"currency"`
	CreatedBy   string         `gorm:"type:char(36);index" json:"created_by"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Courses []BundleCourse `gorm:"foreignKey:BundleID" json:"courses,omitempty"`
}

func (Bundle) TableName() string {
	return "bundles"
}

func (b *Bundle) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BundleCourse links a bundle to one of its courses. Position preserves the
// order courses are presented in.
type BundleCourse struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BundleID string `gorm:"type:char(36);not null;index:idx_bundle_course,unique" json:"bundle_id"`
	CourseID string `gorm:"type:char(36);not null;index:idx_bundle_course,unique" json:"course_id"`
	Position int    `gorm:"default:0" json:"position"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (BundleCourse) TableName() string {
	return "bundle_courses"
}
