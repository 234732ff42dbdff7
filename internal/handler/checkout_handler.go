package handler

import (
	"errors"
	"log"
	"net/http"

	"learnhub/internal/middleware"
	"learnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	svc *service.CheckoutService
}

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type CreateIntentRequest struct {
	CourseID string `json:"courseId"`
	BundleID string `json:"bundleId"`
	Amount   int64  `json:"amount" binding:"required,min=1"`
	Currency string `json:"currency"`
}

// CreateIntent verifies the claimed amount against the stored price and
// returns the gateway client secret the frontend completes payment with.
func (h *CheckoutHandler) CreateIntent(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.CourseID == "" && req.BundleID == "") || (req.CourseID != "" && req.BundleID != "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of courseId or bundleId is required"})
		return
	}

	intent, err := h.svc.CreateIntent(c.Request.Context(), service.IntentInput{
		UserID:      userID,
		CourseID:    req.CourseID,
		BundleID:    req.BundleID,
		AmountCents: req.Amount,
		Currency:    req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, service.ErrAmountMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount mismatch"})
		default:
			log.Printf("[checkout] create intent failed: user=%s err=%v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment intent"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
		"intentId":     intent.ID,
	})
}
