package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/snackshop-service/internal/cache"
	"github.com/hostelhub/snackshop-service/internal/metrics"
	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/services"
	"github.com/hostelhub/snackshop-service/internal/storage"
	"github.com/hostelhub/snackshop-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	snackHandler   *SnackHandler
	orderHandler   *OrderHandler
	reportHandler  *ReportHandler
	authMiddleware *SessionAuthMiddleware
	serviceManager services.ServiceManager
	storage        *storage.LocalStorage
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions *cache.SessionStore,
	storage *storage.LocalStorage,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		snackHandler:   NewSnackHandler(serviceManager.Inventory(), serviceManager.ImportExport(), storage, logger),
		orderHandler:   NewOrderHandler(serviceManager.Order(), logger),
		reportHandler:  NewReportHandler(serviceManager.ImportExport(), logger),
		authMiddleware: NewSessionAuthMiddleware(sessions, logger),
		serviceManager: serviceManager,
		storage:        storage,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.POST("/logout", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Logout)
			auth.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Me)
		}

		// Snack routes
		snacks := v1.Group("/snacks")
		{
			// Browsing is public; an optional session lets admins see
			// unavailable snacks too
			snacks.GET("", hm.authMiddleware.OptionalAuthMiddleware(), hm.snackHandler.ListSnacks)
			snacks.GET("/:id", hm.snackHandler.GetSnack)

			// Inventory management - Admins only
			snacks.POST("", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.snackHandler.CreateSnack)
			snacks.PUT("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.snackHandler.UpdateSnack)
			snacks.DELETE("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.snackHandler.DeleteSnack)
			snacks.POST("/:id/image", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.snackHandler.UploadImage)
			snacks.POST("/import", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.snackHandler.ImportSnacks)
		}

		// Order routes - all require a session
		orders := v1.Group("/orders")
		orders.Use(hm.authMiddleware.AuthMiddleware())
		{
			orders.POST("", hm.orderHandler.PlaceOrder)
			orders.GET("/my", hm.orderHandler.ListMyOrders)

			// Ownership is enforced in the service layer: students only
			// see their own orders
			orders.GET("/:id", hm.orderHandler.GetOrder)

			// Shop management - Admins only
			orders.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.orderHandler.ListOrders)
			orders.POST("/:id/complete", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.orderHandler.CompleteOrder)
			orders.GET("/stats", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.orderHandler.GetShopStats)
		}

		// Report routes - Admins only
		reports := v1.Group("/reports")
		reports.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			reports.GET("/orders.xlsx", hm.reportHandler.ExportOrders)
			reports.GET("/inventory.xlsx", hm.reportHandler.ExportInventory)
		}
	}

	// Uploaded snack images, served under the same prefix their
	// references are built from
	router.Static(hm.storage.BaseURL(), hm.storage.Dir())

	// Prometheus metrics endpoint
	router.GET("/metrics", metrics.Handler())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"service":   "snackshop-service",
				"error":     err.Error(),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "snackshop-service",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
