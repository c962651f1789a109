package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/application/service"
	"github.com/LouisLibre/BorderPOS/internal/config"
	domainRepo "github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"github.com/LouisLibre/BorderPOS/internal/infrastructure/cache"
	"github.com/LouisLibre/BorderPOS/internal/infrastructure/database"
	"github.com/LouisLibre/BorderPOS/internal/infrastructure/repository"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/handler"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/routes"
	"github.com/LouisLibre/BorderPOS/pkg/metrics"
	"github.com/LouisLibre/BorderPOS/pkg/printer"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencySweepInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.New(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db, &cfg.Register); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Catalog cache is optional
	var catalogCache cache.CatalogCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis unavailable at %s, catalog reads go to the database: %v", cfg.Redis.Addr, err)
		} else {
			catalogCache = cache.NewRedisCatalogCache(redisClient, cfg.Register.POSID, cfg.Redis.TTL)
		}
	}

	registerMetrics := metrics.New(cfg.Register.POSID)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo, cfg.Register.DefaultExchangeRate)
	catalogService := service.NewCatalogService(catalogRepo, catalogCache)
	cartService := service.NewCartService(catalogService, settingsService)
	searchService := service.NewSearchService(catalogService, cartService)
	ticketService := service.NewTicketService(ticketRepo)
	printerService := service.NewPrinterService(thermalPrinter, settingsService, ticketRepo, registerMetrics, service.PrinterOptions{
		Type:          cfg.Printer.Type,
		CharsPerLine:  cfg.Printer.CharsPerLine,
		StoreName:     cfg.Printer.StoreName,
		RatePerSecond: cfg.Printer.RatePerSecond,
		QueueSize:     cfg.Printer.QueueSize,
	})
	saleService := service.NewSaleService(ticketRepo, cartService, printerService, registerMetrics,
		cfg.Register.CashierName, cfg.Register.POSID)
	paymentService := service.NewPaymentService(cartService, settingsService, saleService, cfg.Register.CompletionCountdown)

	printerService.Start(ctx)
	defer printerService.Close()

	go sweepIdempotencyKeys(ctx, idempotencyRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogService, searchService, cfg.Import.MaxUploadSize),
		Cart:     handler.NewCartHandler(cartService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Settings: handler.NewSettingsHandler(settingsService),
		Ticket:   handler.NewTicketHandler(ticketService, printerService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		DB:              db,
		Metrics:         registerMetrics,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s, register %s", cfg.App.Env, cfg.Register.POSID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}
	log.Println("Server exited")
}

// sweepIdempotencyKeys drops expired finalize keys until ctx is cancelled.
func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx, time.Now())
			if err != nil {
				log.Printf("Warning: failed to delete expired idempotency keys: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Deleted %d expired idempotency keys", n)
			}
		}
	}
}
