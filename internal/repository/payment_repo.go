package repository

import (
	"errors"

	"learnhub/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByProviderPaymentID(id string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("provider_payment_id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Exists reports whether a payment row has been written for the given
// external payment id. This is the idempotency check the webhook runs
// before any side effect.
func (r *PaymentRepository) Exists(providerPaymentID string) (bool, error) {
	_, err := r.GetByProviderPaymentID(providerPaymentID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (r *PaymentRepository) ListByOrder(orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("order_id = ?", orderID).Find(&payments).Error
	return payments, err
}
