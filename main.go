// Package main provides the main entry point for the Breezeline Interiors backend
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/breezeline/interiors-api/app/handlers"
	"github.com/breezeline/interiors-api/app/middleware"
	"github.com/breezeline/interiors-api/app/router"
	"github.com/breezeline/interiors-api/app/services"
	businessflow "github.com/breezeline/interiors-api/business_flow"
	"github.com/breezeline/interiors-api/config"
	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/repository"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Breezeline Interiors application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to stdout, a rotating file, or both
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(rotating)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotating))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(
			&models.Admin{},
			&models.EstimationLead{},
			&models.Category{},
			&models.Work{},
		); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeNotificationService wires the email provider; a disabled email
// config falls back to the logging mock so lead capture keeps working.
func initializeNotificationService(cfg *config.ProductionConfig) services.NotificationService {
	var emailProvider services.EmailProvider
	if cfg.Email.Enabled {
		emailProvider = services.NewGomailEmailProvider(&cfg.Email)
	} else {
		emailProvider = services.NewMockEmailProvider()
	}
	return services.NewNotificationService(emailProvider, cfg.Email.AdminEmail)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Storage: Postgres-backed repositories or the in-memory fallback
	var (
		leadStore    repository.LeadStore
		adminRepo    repository.AdminRepository
		categoryRepo repository.CategoryRepository
		workRepo     repository.WorkRepository
		portfolioDB  *gorm.DB
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := initializeDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		leadStore = repository.NewEstimationLeadRepository(db)
		adminRepo = repository.NewAdminRepository(db)
		categoryRepo = repository.NewCategoryRepository(db)
		workRepo = repository.NewWorkRepository(db)
		portfolioDB = db
	case config.StorageDriverMemory:
		log.Printf("Using in-memory storage; leads are capped at %d and lost on restart", repository.MemoryLeadCapacity)
		leadStore = repository.NewMemoryLeadStore()
		adminRepo = repository.NewMemoryAdminRepository()
		portfolio := repository.NewMemoryPortfolioStore()
		categoryRepo = portfolio.Categories()
		workRepo = portfolio.Works()
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Sessions live in Redis when available, otherwise in memory
	var sessionStore services.SessionStore
	if rc != nil {
		sessionStore = services.NewRedisSessionStore(rc, cfg.Cache.RedisPrefix)
	} else {
		memStore := services.NewMemorySessionStore(cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, memStore.Close)
		sessionStore = memStore
	}
	sessionService := services.NewSessionService(sessionStore, cfg.Session.TTL)

	notificationService := initializeNotificationService(cfg)

	// Initialize flows
	estimationFlow := businessflow.NewEstimationFlow(leadStore, notificationService)
	adminAuthFlow := businessflow.NewAdminAuthFlow(adminRepo, sessionService)
	portfolioFlow := businessflow.NewPortfolioFlow(
		categoryRepo,
		workRepo,
		portfolioDB,
		cfg.Uploads.Dir,
		cfg.Uploads.PublicPath,
		cfg.Uploads.MaxSizeBytes,
	)

	// Seed the admin account from config on first run
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer seedCancel()
	if err := adminAuthFlow.EnsureBootstrapAdmin(seedCtx, cfg.Admin.Username, cfg.Admin.Password, cfg.Security.BcryptCost); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	// Initialize handlers
	estimationHandler := handlers.NewEstimationHandler(estimationFlow)
	authHandler := handlers.NewAdminAuthHandler(adminAuthFlow, cfg.Session)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionService, cfg.Session.CookieName)

	// Initialize router
	appRouter := router.NewFiberRouter(cfg, estimationHandler, authHandler, portfolioHandler, authMiddleware)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
