package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/marketpulse/config"
	"github.com/epeers/marketpulse/docs"
	"github.com/epeers/marketpulse/internal/alphavantage"
	"github.com/epeers/marketpulse/internal/cache"
	"github.com/epeers/marketpulse/internal/database"
	"github.com/epeers/marketpulse/internal/handlers"
	"github.com/epeers/marketpulse/internal/middleware"
	"github.com/epeers/marketpulse/internal/repository"
	"github.com/epeers/marketpulse/internal/returns"
	"github.com/epeers/marketpulse/internal/scheduler"
	"github.com/epeers/marketpulse/internal/services"
	"github.com/epeers/marketpulse/internal/yahoo"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Market Pulse API
// @version 1.0
// @description Current values and 1-day, month-to-date and year-to-date returns for market indices and stocks.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	// Create context for initialization and background jobs
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Price provider
	var provider services.PriceProvider
	switch cfg.Provider {
	case config.ProviderAlphaVantage:
		provider = alphavantage.NewClient(cfg.AVKey).WithAdjusted(cfg.AVAdjusted)
		if !cfg.AVAdjusted {
			log.Warn("alphavantage closes are unadjusted; set AV_ADJUSTED=true with a premium key")
		}
	default:
		provider = yahoo.NewClient(cfg.FetchParallelism)
	}

	// Initialize caches
	memCache := cache.NewMemoryCache(cfg.CacheTTL)

	// The postgres close store is optional
	var priceStore services.PriceStore
	if cfg.PGURL != "" {
		db, err := database.New(ctx, cfg.PGURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare database: %v", err)
		}
		priceStore = repository.NewPriceRepository(db.Pool)
		log.Info("Postgres close store enabled")
	}

	// Initialize services
	pricingSvc := services.NewPricingService(memCache, priceStore, provider)
	fundamentals := services.NewCachedFundamentals(memCache, yahoo.NewFundamentalsClient())
	quoteSvc := services.NewQuoteService(pricingSvc, fundamentals, returns.DefaultOptions(), cfg.HistoryDays, cfg.Sets)

	// Background jobs
	sched := scheduler.NewScheduler(ctx, quoteSvc, memCache)
	if err := sched.RegisterAll(cfg.WarmCron); err != nil {
		log.Fatalf("Failed to schedule jobs: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Initialize handlers
	quoteHandler := handlers.NewQuoteHandler(quoteSvc, cfg.CacheControl)

	// Setup Gin router
	if level < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(cfg.AllowedOrigin))

	// Health check endpoints
	router.GET("/health", handlers.Health)
	router.GET("/ping", handlers.Ping)

	// Quote routes
	router.GET("/quotes", quoteHandler.GetIndices)
	router.POST("/quotes", quoteHandler.PostQuotes)
	router.GET("/watchlist", quoteHandler.GetWatchlist)
	router.GET("/sets", quoteHandler.ListSets)
	router.GET("/sets/:name", quoteHandler.GetSet)

	// API docs
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s (provider %s)", cfg.Port, provider.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stop()

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
