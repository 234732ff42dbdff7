package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	PriceCents   int64          `gorm:"not null" json:"price_cents"`
	Currency     string         `gorm:"size:3;default:'usd'" json:"currency"`
	InstructorID string         `gorm:"type:char(36);not null;index" json:"instructor_id"`
	IsPublished  bool           `gorm:"default:false;index" json:"is_published"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Instructor User `gorm:"foreignKey:InstructorID" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
