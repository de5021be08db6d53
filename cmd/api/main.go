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

	"github.com/gin-gonic/gin"
	"github.com/kedaikopi/pos-api/internal/application/service"
	"github.com/kedaikopi/pos-api/internal/config"
	"github.com/kedaikopi/pos-api/internal/infrastructure/database"
	"github.com/kedaikopi/pos-api/internal/infrastructure/repository"
	"github.com/kedaikopi/pos-api/internal/presentation/http/handler"
	"github.com/kedaikopi/pos-api/internal/presentation/http/routes"
	"github.com/kedaikopi/pos-api/pkg/printer"
	"github.com/kedaikopi/pos-api/pkg/taskqueue"
	"github.com/kedaikopi/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	paymentMethodRepo := repository.NewPaymentMethodRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	saleItemRepo := repository.NewSaleItemRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tableRepo := repository.NewTableRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Background retry queue for print and drawer jobs
	tasks := taskqueue.New(taskqueue.DefaultConfig())

	// Initialize services
	printerService := service.NewPrinterService(thermalPrinter, settingsRepo, cfg.Printer.Type)
	authService := service.NewAuthService(userRepo, jwtManager)
	settingsService := service.NewSettingsService(settingsRepo)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, paymentMethodRepo)
	cartService := service.NewCartService(productRepo, settingsRepo, saleRepo, printerService)
	paymentService := service.NewPaymentService(saleRepo, saleItemRepo, productRepo, sessionRepo, settingsRepo, tableRepo, cartService, printerService, tasks)
	sessionService := service.NewSessionService(sessionRepo, saleRepo, settingsRepo, cfg.Session.HeartbeatInterval)
	tableService := service.NewTableService(tableRepo, saleRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Cart:     handler.NewCartHandler(cartService),
		Payment:  handler.NewPaymentHandler(paymentService, authService),
		Session:  handler.NewSessionHandler(sessionService, settingsService),
		Table:    handler.NewTableHandler(tableService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Settings: handler.NewSettingsHandler(settingsService),
		Printer:  handler.NewPrinterHandler(printerService, paymentService, tasks),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Session liveness heartbeat
	sessionService.StartHeartbeat(context.Background())

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt, then drain
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: Server shutdown: %v", err)
	}

	sessionService.StopHeartbeat()
	tasks.Shutdown()

	if err := thermalPrinter.Close(); err != nil {
		log.Printf("Warning: Printer close: %v", err)
	}

	log.Println("Server stopped")
}
