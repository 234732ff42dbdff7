package handler_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/internal/database"
	"learnhub/internal/domain"
	"learnhub/internal/models"
	"learnhub/internal/router"
	"learnhub/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testWebhookSecret = "whsec_test_secret"

type fakeGateway struct {
	calls []payment.IntentRequest
	err   error
}

func (g *fakeGateway) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return &payment.Intent{ID: "pi_fake", ClientSecret: "pi_fake_secret"}, nil
}

type testEnv struct {
	db     *gorm.DB
	engine http.Handler
	cfg    *config.Config
	gw     *fakeGateway
	user   models.User
	course models.Course
	bundle models.Bundle
}

func newTestEnv(t *testing.T) *testEnv {
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

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Stripe.WebhookSecret = testWebhookSecret

	instructor := models.User{Email: "teach@example.com", FullName: "Teacher", Role: domain.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)
	user := models.User{Email: "student@example.com", FullName: "Student", Role: domain.RoleStudent}
	require.NoError(t, db.Create(&user).Error)
	course := models.Course{Title: "Go Basics", PriceCents: 4999, Currency: "usd", InstructorID: instructor.ID, IsPublished: true}
	require.NoError(t, db.Create(&course).Error)
	bundle := models.Bundle{Name: "Go Mastery", PriceCents: 14999, Currency: "usd", CreatedBy: instructor.ID, IsActive: true}
	require.NoError(t, db.Create(&bundle).Error)
	require.NoError(t, db.Create(&models.BundleCourse{BundleID: bundle.ID, CourseID: course.ID}).Error)

	gw := &fakeGateway{}
	verifier := payment.NewStripeWebhookVerifier(cfg.Stripe.WebhookSecret)
	engine := router.Setup(cfg, db, gw, verifier)

	return &testEnv{db: db, engine: engine, cfg: cfg, gw: gw, user: user, course: course, bundle: bundle}
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func paymentIntentEvent(eventType, paymentID string, amount int64, meta map[string]string) []byte {
	metaJSON := ""
	for k, v := range meta {
		if metaJSON != "" {
			metaJSON += ","
		}
		metaJSON += fmt.Sprintf("%q:%q", k, v)
	}
	return []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {
			"object": {
				"id": %q,
				"object": "payment_intent",
				"amount": %d,
				"currency": "usd",
				"metadata": {%s}
			}
		}
	}`, stripe.APIVersion, eventType, paymentID, amount, metaJSON))
}

func signatureHeader(payload []byte, secret string, at time.Time) string {
	sig := webhook.ComputeSignature(at, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(sig))
}

func (e *testEnv) postWebhook(t *testing.T, payload []byte, sigHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	if sigHeader != "" {
		req.Header.Set("Stripe-Signature", sigHeader)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestWebhookSucceededEventAndReplay(t *testing.T) {
	e := newTestEnv(t)
	payload := paymentIntentEvent(payment.EventPaymentSucceeded, "pi_wh_1", 4999,
		map[string]string{"courseId": e.course.ID, "userId": e.user.ID})
	header := signatureHeader(payload, testWebhookSecret, time.Now())

	w := e.postWebhook(t, payload, header)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())

	assert.Equal(t, int64(1), e.count(t, &models.Order{}))
	assert.Equal(t, int64(1), e.count(t, &models.Enrollment{}))
	assert.Equal(t, int64(1), e.count(t, &models.Payment{}))

	var enrollment models.Enrollment
	require.NoError(t, e.db.Where("user_id = ? AND course_id = ?", e.user.ID, e.course.ID).First(&enrollment).Error)
	assert.Equal(t, domain.EnrollmentStatusActive, enrollment.Status)

	// identical delivery again: acknowledged, no new rows
	w = e.postWebhook(t, payload, header)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), e.count(t, &models.Order{}))
	assert.Equal(t, int64(1), e.count(t, &models.Enrollment{}))
	assert.Equal(t, int64(1), e.count(t, &models.Payment{}))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	e := newTestEnv(t)
	payload := paymentIntentEvent(payment.EventPaymentSucceeded, "pi_wh_2", 4999,
		map[string]string{"courseId": e.course.ID, "userId": e.user.ID})

	w := e.postWebhook(t, payload, signatureHeader(payload, "whsec_wrong", time.Now()))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.postWebhook(t, payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// valid signature over different bytes
	header := signatureHeader(payload, testWebhookSecret, time.Now())
	tampered := bytes.Replace(payload, []byte("4999"), []byte("1"), 1)
	w = e.postWebhook(t, tampered, header)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, int64(0), e.count(t, &models.Order{}))
	assert.Equal(t, int64(0), e.count(t, &models.Enrollment{}))
	assert.Equal(t, int64(0), e.count(t, &models.Payment{}))
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	e := newTestEnv(t)
	payload := paymentIntentEvent("charge.refunded", "ch_1", 4999, nil)

	w := e.postWebhook(t, payload, signatureHeader(payload, testWebhookSecret, time.Now()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())
	assert.Equal(t, int64(0), e.count(t, &models.Order{}))
}

func TestWebhookFailedEventGrantsNothing(t *testing.T) {
	e := newTestEnv(t)
	payload := paymentIntentEvent(payment.EventPaymentFailed, "pi_wh_3", 4999,
		map[string]string{"courseId": e.course.ID, "userId": e.user.ID})

	w := e.postWebhook(t, payload, signatureHeader(payload, testWebhookSecret, time.Now()))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(0), e.count(t, &models.Enrollment{}))

	var pay models.Payment
	require.NoError(t, e.db.Where("provider_payment_id = ?", "pi_wh_3").First(&pay).Error)
	assert.Equal(t, domain.PaymentStatusFailed, pay.Status)
	var order models.Order
	require.NoError(t, e.db.First(&order).Error)
	assert.Equal(t, domain.OrderStatusFailed, order.Status)
}

func TestWebhookAcknowledgesMissingMetadata(t *testing.T) {
	e := newTestEnv(t)
	payload := paymentIntentEvent(payment.EventPaymentSucceeded, "pi_wh_4", 4999, nil)

	w := e.postWebhook(t, payload, signatureHeader(payload, testWebhookSecret, time.Now()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), e.count(t, &models.Order{}))
	assert.Equal(t, int64(0), e.count(t, &models.Payment{}))
}
