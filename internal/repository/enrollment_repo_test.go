package repository

import (
	"testing"

	"learnhub/internal/database"
	"learnhub/internal/domain"
	"learnhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestUpsertActiveIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)

	first := &models.Enrollment{
		UserID:      "user-1",
		CourseID:    "course-1",
		Status:      domain.EnrollmentStatusActive,
		PurchasedAs: domain.PurchaseTypeSingleCourse,
		OrderID:     "order-1",
	}
	require.NoError(t, repo.UpsertActive(first))

	// same pair from a bundle replay: silently kept as-is
	second := &models.Enrollment{
		UserID:      "user-1",
		CourseID:    "course-1",
		Status:      domain.EnrollmentStatusActive,
		PurchasedAs: domain.PurchaseTypeBundle,
		OrderID:     "order-2",
	}
	require.NoError(t, repo.UpsertActive(second))

	var n int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	got, err := repo.Get("user-1", "course-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", got.OrderID)
	assert.Equal(t, domain.PurchaseTypeSingleCourse, got.PurchasedAs)

	// different course is a new row
	require.NoError(t, repo.UpsertActive(&models.Enrollment{
		UserID: "user-1", CourseID: "course-2",
		Status: domain.EnrollmentStatusActive, PurchasedAs: domain.PurchaseTypeBundle, OrderID: "order-2",
	}))
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestPaymentUniqueProviderPaymentID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)

	p := &models.Payment{Provider: domain.ProviderStripe, AmountCents: 4999, Currency: "usd",
		Status: domain.PaymentStatusSucceeded, ProviderPaymentID: "pi_dup"}
	require.NoError(t, repo.Create(p))

	exists, err := repo.Exists("pi_dup")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists("pi_other")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := &models.Payment{Provider: domain.ProviderStripe, AmountCents: 4999, Currency: "usd",
		Status: domain.PaymentStatusSucceeded, ProviderPaymentID: "pi_dup"}
	err = repo.Create(dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
