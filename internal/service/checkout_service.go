package service

import (
	"context"
	"errors"

	"learnhub/internal/domain"
	"learnhub/internal/repository"
	"learnhub/pkg/payment"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrAmountMismatch = errors.New("amount mismatch")
)

// CheckoutService verifies claimed prices against the catalog and issues
// payment intents with the gateway. It performs no writes of its own.
type CheckoutService struct {
	catalogRepo *repository.CatalogRepository
	userRepo    *repository.UserRepository
	gateway     payment.Gateway
}

func NewCheckoutService(catalogRepo *repository.CatalogRepository, userRepo *repository.UserRepository, gateway payment.Gateway) *CheckoutService {
	return &CheckoutService{catalogRepo: catalogRepo, userRepo: userRepo, gateway: gateway}
}

type IntentInput struct {
	UserID      string
	CourseID    string
	BundleID    string
	AmountCents int64
	Currency    string
}

// VerifyPrice checks the client-claimed amount against the stored price of
// the course or bundle and returns the item title and instructor id for
// intent metadata. The claimed amount is never trusted beyond this equality
// check.
func (s *CheckoutService) VerifyPrice(courseID, bundleID string, amountCents int64) (title, instructorID string, err error) {
	if bundleID != "" {
		b, err := s.catalogRepo.GetBundle(bundleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", ErrItemNotFound
			}
			return "", "", err
		}
		if b.PriceCents != amountCents {
			return "", "", ErrAmountMismatch
		}
		return b.Name, b.CreatedBy, nil
	}
	c, err := s.catalogRepo.GetCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrItemNotFound
		}
		return "", "", err
	}
	if c.PriceCents != amountCents {
		return "", "", ErrAmountMismatch
	}
	return c.Title, c.InstructorID, nil
}

// CreateIntent runs price verification and asks the gateway for a payment
// intent carrying enough metadata to reconstruct the purchase from the
// callback alone. Gateway errors propagate; retrying is the caller's call.
func (s *CheckoutService) CreateIntent(ctx context.Context, in IntentInput) (*payment.Intent, error) {
	title, instructorID, err := s.VerifyPrice(in.CourseID, in.BundleID, in.AmountCents)
	if err != nil {
		return nil, err
	}
	currency := in.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	meta := map[string]string{
		"userId":       in.UserID,
		"courseTitle":  title,
		"instructorId": instructorID,
	}
	if in.BundleID != "" {
		meta["bundleId"] = in.BundleID
	} else {
		meta["courseId"] = in.CourseID
	}
	if u, err := s.userRepo.GetByID(in.UserID); err == nil {
		meta["userEmail"] = u.Email
		meta["userName"] = u.FullName
	}

	return s.gateway.CreateIntent(ctx, payment.IntentRequest{
		AmountCents: in.AmountCents,
		Currency:    currency,
		Metadata:    meta,
	})
}
