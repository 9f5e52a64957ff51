package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/config"
	"github.com/tmarchand/folio/internal/cache"
	"github.com/tmarchand/folio/internal/database"
	"github.com/tmarchand/folio/internal/handlers"
	"github.com/tmarchand/folio/internal/middleware"
	"github.com/tmarchand/folio/internal/oracle"
	"github.com/tmarchand/folio/internal/repository"
	"github.com/tmarchand/folio/internal/scheduler"
	"github.com/tmarchand/folio/internal/services"
	"github.com/tmarchand/folio/internal/util"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context for initialization
	ctx := context.Background()

	// Open the embedded database
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Initialize oracle client and quote cache
	oracleClient := oracle.NewClient(cfg.OracleURL, cfg.OracleKey)
	quotes := cache.NewQuoteCache(5 * time.Minute)

	// Initialize repositories
	logger := log.StandardLogger()
	holdingRepo := repository.NewHoldingRepository(db, logger)
	priceRepo := repository.NewPriceRepository(db, logger)
	snapshotRepo := repository.NewSnapshotRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)

	// Initialize services
	portfolioSvc := services.NewPortfolioService(holdingRepo, priceRepo, snapshotRepo, userRepo)
	historySvc := services.NewHistoryService(holdingRepo, priceRepo)
	movementSvc := services.NewMovementService(snapshotRepo, holdingRepo)
	captureSvc := services.NewCaptureService(holdingRepo, priceRepo, userRepo, portfolioSvc, oracleClient, quotes)

	// Start the scheduled price capture. The cron fires on its own cadence;
	// the market hours gate decides whether a firing actually captures.
	job, err := scheduler.New(cfg.CaptureCron, "portfolio_price_capture", func() {
		if !util.IsMarketOpen(time.Now()) {
			log.Debug("capture skipped: market closed")
			return
		}
		if _, err := captureSvc.CaptureNow(context.Background()); err != nil {
			log.Errorf("scheduled capture failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start capture scheduler: %v", err)
	}

	// Initialize handlers
	holdingHandler := handlers.NewHoldingHandler(portfolioSvc)
	priceHandler := handlers.NewPriceHandler(captureSvc, priceRepo)
	historyHandler := handlers.NewHistoryHandler(historySvc, portfolioSvc)
	movementHandler := handlers.NewMovementHandler(movementSvc)
	captureHandler := handlers.NewCaptureHandler(captureSvc, job)

	// Setup Gin router
	router := gin.Default()

	// Apply global middleware
	router.Use(middleware.ScopeUser())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/holdings", holdingHandler.List)
		api.POST("/holdings", holdingHandler.Create)
		api.PUT("/holdings/:id", holdingHandler.Update)
		api.DELETE("/holdings/:id", holdingHandler.Delete)
		api.GET("/holdings/:id/history", holdingHandler.History)

		api.POST("/fetch-price", priceHandler.Fetch)
		api.GET("/price-history/:ticker", priceHandler.DailyHistory)
		api.GET("/price-history/:ticker/hourly", priceHandler.HourlyHistory)

		api.GET("/portfolio-history", historyHandler.PortfolioHistory)
		api.GET("/portfolio-by-account-type", historyHandler.ByAccountType)
		api.GET("/movement", movementHandler.Movement)

		api.POST("/capture-prices", captureHandler.Capture)
		api.GET("/scheduler-status", captureHandler.SchedulerStatus)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	job.Stop()

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
