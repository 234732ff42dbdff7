package handler

import (
	"log"
	"net/http"

	"learnhub/internal/middleware"
	"learnhub/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	enrollmentRepo *repository.EnrollmentRepository
	orderRepo      *repository.OrderRepository
}

func NewMeHandler(enrollmentRepo *repository.EnrollmentRepository, orderRepo *repository.OrderRepository) *MeHandler {
	return &MeHandler{enrollmentRepo: enrollmentRepo, orderRepo: orderRepo}
}

func (h *MeHandler) GetEnrollments(c *gin.Context) {
	userID := middleware.GetUserID(c)
	enrollments, err := h.enrollmentRepo.ListByUser(userID)
	if err != nil {
		log.Printf("[me] list enrollments: user=%s err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list enrollments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

func (h *MeHandler) GetOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orders, err := h.orderRepo.ListByUser(userID)
	if err != nil {
		log.Printf("[me] list orders: user=%s err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
