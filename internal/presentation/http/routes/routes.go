package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/config"
	domainRepo "github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"github.com/LouisLibre/BorderPOS/internal/infrastructure/database"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/handler"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/middleware"
	"github.com/LouisLibre/BorderPOS/pkg/metrics"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Payment  *handler.PaymentHandler
	Settings *handler.SettingsHandler
	Ticket   *handler.TicketHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// DB backs the health check; nil skips the ping
	DB      *gorm.DB
	Metrics *metrics.Metrics
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware("/health", "/metrics"))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	if deps.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	router.GET("/health", healthCheck(deps))

	v1 := router.Group("/api/v1")
	{
		registerCatalogRoutes(v1, h)
		registerCartRoutes(v1, h)
		registerPaymentRoutes(v1, h, deps)
		registerSettingsRoutes(v1, h)
		registerTicketRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func healthCheck(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := database.Ping(ctx, deps.DB); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unavailable",
					"service": deps.Cfg.App.Name,
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	}
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	catalog := v1.Group("/catalog")
	{
		catalog.GET("", h.Catalog.List)
		catalog.POST("/import", h.Catalog.Import)
	}
	v1.POST("/search/submit", h.Catalog.Submit)
}

func registerCartRoutes(v1 *gin.RouterGroup, h *Handlers) {
	cart := v1.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.GET("/events", h.Cart.Events)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:sku", h.Cart.UpdateItem)
		cart.DELETE("/items/:sku", h.Cart.RemoveItem)
	}
}

func registerPaymentRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	payment := v1.Group("/payment")
	{
		payment.POST("", h.Payment.Open)
		payment.GET("", h.Payment.Get)
		payment.DELETE("", h.Payment.Cancel)
		payment.POST("/tenders", h.Payment.AddTender)
		payment.DELETE("/tenders", h.Payment.ResetAll)
		payment.DELETE("/tenders/:method", h.Payment.ResetTender)
		payment.PUT("/method", h.Payment.SelectMethod)
		payment.POST("/keypad", h.Payment.PressKey)
		payment.POST("/keypad/preset", h.Payment.Preset)
		// a retried finalize must not record the sale twice
		payment.POST("/finalize", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:  deps.IdempotencyRepo,
			POSID: deps.Cfg.Register.POSID,
			TTL:   deps.Cfg.Register.IdempotencyTTL,
		}), h.Payment.Finalize)
	}
}

func registerSettingsRoutes(v1 *gin.RouterGroup, h *Handlers) {
	settings := v1.Group("/settings")
	{
		settings.GET("/exchange-rate", h.Settings.GetExchangeRate)
		settings.PUT("/exchange-rate", h.Settings.UpdateExchangeRate)
		settings.GET("/printer", h.Settings.GetPrinter)
		settings.PUT("/printer", h.Settings.UpdatePrinter)
	}
}

func registerTicketRoutes(v1 *gin.RouterGroup, h *Handlers) {
	tickets := v1.Group("/tickets")
	{
		tickets.GET("", h.Ticket.List)
		tickets.GET("/:id", h.Ticket.Get)
		tickets.POST("/:id/print", h.Ticket.Print)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
