package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"learnhub/internal/domain"
	"learnhub/internal/models"
	"learnhub/internal/repository"
	"learnhub/pkg/payment"

	"gorm.io/gorm"
)

var ErrMissingMetadata = errors.New("missing metadata")

// errAlreadyProcessed aborts the purchase transaction when the payment
// insert hits the provider_payment_id unique index: another delivery of the
// same event won the race and its rows are already durable.
var errAlreadyProcessed = errors.New("payment already processed")

// OrderService turns verified gateway events into durable order state:
// order + items, enrollment activation (with bundle fan-out) and the
// terminal payment record. Every path is safe under at-least-once delivery.
type OrderService struct {
	db          *gorm.DB
	catalogRepo *repository.CatalogRepository
	paymentRepo *repository.PaymentRepository
	auditRepo   *repository.AuditLogRepository
}

func NewOrderService(db *gorm.DB, catalogRepo *repository.CatalogRepository, paymentRepo *repository.PaymentRepository, auditRepo *repository.AuditLogRepository) *OrderService {
	return &OrderService{db: db, catalogRepo: catalogRepo, paymentRepo: paymentRepo, auditRepo: auditRepo}
}

type eventIdentity struct {
	userID   string
	courseID string
	bundleID string
}

func extractIdentity(meta map[string]string) (eventIdentity, error) {
	id := eventIdentity{
		userID:   meta["userId"],
		courseID: meta["courseId"],
		bundleID: meta["bundleId"],
	}
	if (id.courseID == "" && id.bundleID == "") || id.userID == "" {
		return id, ErrMissingMetadata
	}
	return id, nil
}

// ProcessPaymentSucceeded handles a verified payment_intent.succeeded event.
// All writes happen in one transaction; the enrollment upserts and the
// unique payment key keep replays and concurrent deliveries from doubling
// any effect.
func (s *OrderService) ProcessPaymentSucceeded(ctx context.Context, evt *payment.Event) error {
	id, err := extractIdentity(evt.Metadata)
	if err != nil {
		return err
	}

	processed, err := s.paymentRepo.Exists(evt.PaymentID)
	if err != nil {
		return err
	}
	if processed {
		log.Printf("[order] payment %s already processed, skipping", evt.PaymentID)
		return nil
	}

	purchaseType := domain.PurchaseTypeSingleCourse
	courseIDs := []string{id.courseID}
	if id.bundleID != "" {
		purchaseType = domain.PurchaseTypeBundle
		courseIDs, err = s.catalogRepo.GetBundleCourseIDs(id.bundleID)
		if err != nil {
			return err
		}
		if len(courseIDs) == 0 {
			return ErrItemNotFound
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := &models.Order{
			UserID:        id.userID,
			PurchaseType:  purchaseType,
			TotalCents:    evt.AmountCents,
			SubtotalCents: evt.AmountCents,
			Currency:      strings.ToLower(evt.Currency),
			Status:        domain.OrderStatusCompleted,
		}
		orders := repository.NewOrderRepository(tx)
		if err := orders.Create(order); err != nil {
			return err
		}

		item := &models.OrderItem{
			OrderID:        order.ID,
			UnitPriceCents: evt.AmountCents,
			Quantity:       1,
		}
		if id.bundleID != "" {
			item.BundleID = &id.bundleID
		} else {
			item.CourseID = &id.courseID
		}
		if err := orders.CreateItem(item); err != nil {
			return err
		}

		enrollments := repository.NewEnrollmentRepository(tx)
		for _, courseID := range courseIDs {
			e := &models.Enrollment{
				UserID:      id.userID,
				CourseID:    courseID,
				Status:      domain.EnrollmentStatusActive,
				PurchasedAs: purchaseType,
				OrderID:     order.ID,
			}
			if err := enrollments.UpsertActive(e); err != nil {
				return err
			}
		}

		// Last write on purpose: the idempotency check keys off this row,
		// so it must not exist before the entitlements do.
		pay := &models.Payment{
			OrderID:           &order.ID,
			Provider:          domain.ProviderStripe,
			AmountCents:       evt.AmountCents,
			Currency:          strings.ToLower(evt.Currency),
			Status:            domain.PaymentStatusSucceeded,
			ProviderPaymentID: evt.PaymentID,
		}
		if err := repository.NewPaymentRepository(tx).Create(pay); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyProcessed
			}
			return err
		}
		return nil
	})
	if errors.Is(err, errAlreadyProcessed) {
		log.Printf("[order] payment %s processed concurrently, skipping", evt.PaymentID)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("[order] payment %s settled: user=%s type=%s courses=%d amount=%d",
		evt.PaymentID, id.userID, purchaseType, len(courseIDs), evt.AmountCents)
	s.audit(id.userID, "payment_completed", evt.PaymentID)
	return nil
}

// ProcessPaymentFailed records a gateway-reported failure: a failed order
// and a failed payment row. Enrollments are never touched on this path.
func (s *OrderService) ProcessPaymentFailed(ctx context.Context, evt *payment.Event) error {
	id, err := extractIdentity(evt.Metadata)
	if err != nil {
		return err
	}

	processed, err := s.paymentRepo.Exists(evt.PaymentID)
	if err != nil {
		return err
	}
	if processed {
		return nil
	}

	purchaseType := domain.PurchaseTypeSingleCourse
	if id.bundleID != "" {
		purchaseType = domain.PurchaseTypeBundle
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := &models.Order{
			UserID:        id.userID,
			PurchaseType:  purchaseType,
			TotalCents:    evt.AmountCents,
			SubtotalCents: evt.AmountCents,
			Currency:      strings.ToLower(evt.Currency),
			Status:        domain.OrderStatusFailed,
		}
		if err := repository.NewOrderRepository(tx).Create(order); err != nil {
			return err
		}
		pay := &models.Payment{
			OrderID:           &order.ID,
			Provider:          domain.ProviderStripe,
			AmountCents:       evt.AmountCents,
			Currency:          strings.ToLower(evt.Currency),
			Status:            domain.PaymentStatusFailed,
			ProviderPaymentID: evt.PaymentID,
		}
		if err := repository.NewPaymentRepository(tx).Create(pay); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyProcessed
			}
			return err
		}
		return nil
	})
	if errors.Is(err, errAlreadyProcessed) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("[order] payment %s failed: user=%s amount=%d", evt.PaymentID, id.userID, evt.AmountCents)
	s.audit(id.userID, "payment_failed", evt.PaymentID)
	return nil
}

func (s *OrderService) audit(userID, action, paymentID string) {
	if s.auditRepo == nil {
		return
	}
	uid := userID
	if err := s.auditRepo.Create(&models.AuditLog{
		UserID:     &uid,
		Action:     action,
		Resource:   "payment",
		ResourceID: paymentID,
	}); err != nil {
		log.Printf("[order] audit log: %v", err)
	}
}
