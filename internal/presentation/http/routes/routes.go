package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kedaikopi/pos-api/internal/config"
	domainRepo "github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/internal/presentation/http/handler"
	"github.com/kedaikopi/pos-api/internal/presentation/http/middleware"
	"github.com/kedaikopi/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Cart     *handler.CartHandler
	Payment  *handler.PaymentHandler
	Session  *handler.SessionHandler
	Table    *handler.TableHandler
	Catalog  *handler.CatalogHandler
	Settings *handler.SettingsHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes. Creating accounts is a manager operation; only
	// a manager may hand out the manager role.
	protected.POST("/auth/register", middleware.RequireRole("manager"), h.Auth.Register)
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	registerCartRoutes(protected, h)
	registerPaymentRoutes(protected, h, deps)
	registerSessionRoutes(protected, h)
	registerTableRoutes(protected, h)
	registerCatalogRoutes(protected, h)
	registerSettingsRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddProduct)
		cart.POST("/items/manual", h.Cart.AddManualItem)
		cart.PUT("/items/:lineId", h.Cart.SetQuantity)
		cart.DELETE("/items/:lineId", h.Cart.RemoveLine)
		cart.PUT("/order-info", h.Cart.SetOrderInfo)
		cart.POST("/discount", h.Cart.ApplyDiscount)
		cart.DELETE("/discount", h.Cart.RemoveDiscount)
		cart.POST("/split/preview", h.Cart.PreviewSplit)
	}

	held := protected.Group("/held-orders")
	{
		held.GET("", h.Cart.ListHeld)
		held.POST("", h.Cart.Hold)
		held.POST("/:id/restore", h.Cart.Restore)
		held.DELETE("/:id", h.Cart.DeleteHeld)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Payment.List)
		// Payment uses idempotency middleware so a double-tapped pay
		// button cannot charge twice
		sales.POST("/pay", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.Process)
		sales.POST("/save", h.Payment.SaveOrder)
		sales.GET("/:id", h.Payment.Get)
		sales.POST("/:id/void", h.Payment.Void)
		sales.POST("/:id/refund", h.Payment.Refund)
	}
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/sessions")
	{
		sessions.GET("", h.Session.List)
		sessions.POST("", h.Session.Open)
		sessions.GET("/current", h.Session.Current)
		sessions.GET("/current/closing-preview", h.Session.ClosingPreview)
		sessions.POST("/current/close", h.Session.Close)
		sessions.GET("/:id", h.Session.Get)
	}
}

func registerTableRoutes(protected *gin.RouterGroup, h *Handlers) {
	tables := protected.Group("/tables")
	{
		tables.GET("", h.Table.List)
		tables.POST("", middleware.RequireRole("manager"), h.Table.Create)
		tables.GET("/:tableNo", h.Table.Get)
		tables.POST("/:tableNo/clear", h.Table.Clear)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Catalog.ListProducts)
		products.GET("/low-stock", h.Catalog.LowStock)
		products.GET("/:id", h.Catalog.GetProduct)

		manage := products.Group("")
		manage.Use(middleware.RequireRole("manager"))
		{
			manage.POST("", h.Catalog.CreateProduct)
			manage.PUT("/:id", h.Catalog.UpdateProduct)
			manage.DELETE("/:id", h.Catalog.DeleteProduct)
		}
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", h.Catalog.ListCategories)
		categories.POST("", middleware.RequireRole("manager"), h.Catalog.CreateCategory)
		categories.DELETE("/:id", middleware.RequireRole("manager"), h.Catalog.DeleteCategory)
	}

	protected.GET("/payment-methods", h.Catalog.ListPaymentMethods)
}

func registerSettingsRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", middleware.RequireRole("manager"), h.Settings.Update)
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.Status)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/drawer", h.Printer.OpenDrawer)
		printer.POST("/reprint/:id", h.Printer.Reprint)
		printer.GET("/failed-tasks", h.Printer.FailedTasks)
		printer.DELETE("/failed-tasks", h.Printer.ClearFailedTasks)
	}
}
