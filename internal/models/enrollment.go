package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment grants a user access to one course. The (user_id, course_id)
// unique index makes activation an idempotent upsert: replaying a purchase
// event can never grant the same course twice.
type Enrollment struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:char(36);not null;index:idx_enrollment_user_course,unique" json:"user_id"`
	CourseID    string    `gorm:"type:char(36);not null;index:idx_enrollment_user_course,unique" json:"course_id"`
	Status      string    `gorm:"size:20;not null;default:'active'" json:"status"`
	PurchasedAs string    `gorm:"size:20" json:"purchased_as"` // single_course | bundle
	OrderID     string    `gorm:"type:char(36);index" json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
