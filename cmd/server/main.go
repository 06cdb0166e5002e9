package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bhmida/bricodirect-backend/config"
	"github.com/bhmida/bricodirect-backend/internal/app/controller"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/internal/app/service"
	"github.com/bhmida/bricodirect-backend/internal/app/store"
	"github.com/bhmida/bricodirect-backend/internal/db"
	"github.com/bhmida/bricodirect-backend/internal/middleware"
	"github.com/bhmida/bricodirect-backend/internal/notify"
	"github.com/bhmida/bricodirect-backend/internal/router"
	"github.com/bhmida/bricodirect-backend/internal/scheduler"
	"github.com/bhmida/bricodirect-backend/internal/storage"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
	"github.com/bhmida/bricodirect-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting BricoDirect Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (carts, browsing sessions, token blacklist)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize Redis-backed stores
	cartStore := store.NewCartStore(redis.GetClient(), cfg.Cart.TTL)
	sessionStore := store.NewSessionStore(redis.GetClient(), cfg.Session.TTL)

	// Notification hub for the back office
	hub := notify.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	sessionService := service.NewSessionService(sessionStore, categoryRepo, productRepo)
	cartService := service.NewCartService(cartStore, productRepo, cfg.Tax.Rate)
	checkoutService := service.NewCheckoutService(orderRepo, userRepo, cartStore, db.GetDB(), cfg.Tax.Rate, hub)
	orderService := service.NewOrderService(orderRepo, userRepo, db.GetDB(), hub)

	// S3 presigned uploads for product and category images
	imageStorage := storage.NewImageStorage(cfg.S3)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	categoryController := controller.NewCategoryController(catalogService)
	productController := controller.NewProductController(catalogService)
	sessionController := controller.NewSessionController(sessionService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(checkoutService, orderService)
	uploadController := controller.NewUploadController(imageStorage)
	notifyController := controller.NewNotifyController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Quotations left unanswered past the configured window expire daily
	expiryScheduler := scheduler.NewQuotationExpiryScheduler(orderRepo, cfg.Quotation.ExpiryDays)
	if err := expiryScheduler.Start(); err != nil {
		logger.Fatal("Failed to start quotation expiry scheduler", err)
	}
	defer expiryScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		categoryController,
		productController,
		sessionController,
		cartController,
		orderController,
		uploadController,
		notifyController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
