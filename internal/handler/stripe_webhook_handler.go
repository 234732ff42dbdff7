package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"learnhub/internal/service"
	"learnhub/pkg/payment"

	"github.com/gin-gonic/gin"
)

type StripeWebhookHandler struct {
	verifier payment.WebhookVerifier
	orderSvc *service.OrderService
}

func NewStripeWebhookHandler(verifier payment.WebhookVerifier, orderSvc *service.OrderService) *StripeWebhookHandler {
	return &StripeWebhookHandler{verifier: verifier, orderSvc: orderSvc}
}

// Handle processes Stripe callbacks. Verification runs on the raw body;
// anything that fails it is rejected before a single row is written. The
// gateway retries on non-2xx, so transient failures return 500 and rely on
// idempotent replay, while unprocessable events are acknowledged after
// leaving a trace in the log.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature"})
		return
	}
	evt, err := h.verifier.VerifyAndParse(body, sig)
	if err != nil {
		log.Printf("[stripe webhook] verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	switch evt.Type {
	case payment.EventPaymentSucceeded:
		err = h.orderSvc.ProcessPaymentSucceeded(c.Request.Context(), evt)
	case payment.EventPaymentFailed:
		err = h.orderSvc.ProcessPaymentFailed(c.Request.Context(), evt)
	default:
		log.Printf("[stripe webhook] ignoring event type %s", evt.Type)
	}

	if err != nil {
		// Metadata/catalog problems will not heal on retry. Acknowledge so
		// the gateway stops redelivering, but keep the trace.
		if errors.Is(err, service.ErrMissingMetadata) || errors.Is(err, service.ErrItemNotFound) {
			log.Printf("[stripe webhook] unprocessable event %s (payment %s): %v", evt.Type, evt.PaymentID, err)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		log.Printf("[stripe webhook] handling event %s (payment %s) failed: %v", evt.Type, evt.PaymentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook handler failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
