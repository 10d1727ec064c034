package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/affinet/awin-gateway/internal/cache"
	"github.com/affinet/awin-gateway/internal/config"
	"github.com/affinet/awin-gateway/internal/database"
	"github.com/affinet/awin-gateway/internal/handler"
	"github.com/affinet/awin-gateway/internal/middleware"
	"github.com/affinet/awin-gateway/internal/repository"
	"github.com/affinet/awin-gateway/internal/service"
	"github.com/affinet/awin-gateway/internal/utils"
	"github.com/affinet/awin-gateway/internal/worker"
	"github.com/affinet/awin-gateway/pkg/awin"
)

// main is the application entrypoint for the Awin affiliate gateway.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting awin gateway")

	utils.InitJWT(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize Awin client and tracking config
	awinClient := awin.NewClient(cfg.Awin.APIKey, cfg.Awin.PublisherID, cfg.Awin.FeedAPIKey)
	tracking := awin.Tracking{
		PublisherID:       cfg.Awin.PublisherID,
		TrackingCodeParam: cfg.Awin.TrackingCodeParam,
	}

	// 5. Initialize repositories
	feedRepo := repository.NewFeedRepository(db)
	productRepo := repository.NewProductRepository(db)

	// 6. Initialize services
	rateCache := cache.NewRateCache(redisClient)
	mapper := service.NewFeedMapper(cfg.Awin.FeedExtraColumns)
	catalogSvc := service.NewCatalogService(productRepo, feedRepo, tracking)
	trxSvc := service.NewTransactionService(awinClient, rateCache, cfg.Awin.TrackingCodeParam)
	syncSvc := service.NewFeedSyncService(awinClient, mapper, feedRepo, productRepo, cfg.Awin.FeedExtraColumns, cfg.Awin.DownloadDir)
	authSvc := service.NewAdminAuthService(cfg.Admin)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:      handler.NewHealthHandler(db, redisClient),
		Product:     handler.NewProductHandler(catalogSvc),
		Transaction: handler.NewTransactionHandler(trxSvc),
		Auth:        handler.NewAuthHandler(authSvc),
		Sync:        handler.NewSyncHandler(syncSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewFeedSyncWorker(syncSvc, cfg.Worker.FeedSyncInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health      *handler.HealthHandler
	Product     *handler.ProductHandler
	Transaction *handler.TransactionHandler
	Auth        *handler.AuthHandler
	Sync        *handler.SyncHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Catalog + reconciliation routes
	v1 := router.Group("/v1")
	{
		v1.GET("/products", handlers.Product.GetProducts)
		v1.GET("/products/:productId", handlers.Product.GetProduct)
		v1.GET("/feeds", handlers.Product.GetFeeds)
		v1.GET("/transactions", handlers.Transaction.GetTransactions)
		v1.GET("/programs/:advertiserId/commission-rates", handlers.Transaction.GetCommissionRates)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/login", handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		admin.POST("/sync", handlers.Sync.TriggerSync)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
