package router

import (
	"time"

	"learnhub/config"
	"learnhub/internal/handler"
	"learnhub/internal/middleware"
	"learnhub/internal/repository"
	"learnhub/internal/service"
	"learnhub/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers. The gateway and webhook
// verifier are passed in so tests can swap the Stripe implementations for
// fakes.
func Setup(cfg *config.Config, db *gorm.DB, gateway payment.Gateway, verifier payment.WebhookVerifier) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	checkoutSvc := service.NewCheckoutService(catalogRepo, userRepo, gateway)
	orderSvc := service.NewOrderService(db, catalogRepo, paymentRepo, auditRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)
	webhookHandler := handler.NewStripeWebhookHandler(verifier, orderSvc)
	meHandler := handler.NewMeHandler(enrollmentRepo, orderRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/courses", catalogHandler.ListCourses)
		api.GET("/courses/:id", catalogHandler.GetCourse)
		api.GET("/bundles", catalogHandler.ListBundles)
		api.GET("/bundles/:id", catalogHandler.GetBundle)

		api.POST("/payments/intent", authMw, checkoutHandler.CreateIntent)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/enrollments", meHandler.GetEnrollments)
			me.GET("/orders", meHandler.GetOrders)
		}

		api.POST("/webhooks/stripe", webhookHandler.Handle)
	}

	return r
}
