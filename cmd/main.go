package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/traininghub/training-api/docs"
	"github.com/traininghub/training-api/internal/auth"
	"github.com/traininghub/training-api/internal/config"
	"github.com/traininghub/training-api/internal/handlers"
	"github.com/traininghub/training-api/internal/logger"
	"github.com/traininghub/training-api/internal/middlewares"
	"github.com/traininghub/training-api/internal/repositories"
	"github.com/traininghub/training-api/internal/services"
	"github.com/traininghub/training-api/internal/ws"
)

// @title Training Management API
// @version 1.0
// @description API for managing users and training sessions with real-time change events

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8001
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Training Management API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize the broadcast hub
	hub := ws.NewHub(logger.Logger)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	sessionRepo := repositories.NewSessionRepository(db, logger.Logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenGenerator, logger.Logger)
	userService := services.NewUserService(userRepo, hub, logger.Logger)
	sessionService := services.NewSessionService(sessionRepo, userRepo, hub, logger.Logger)
	analyticsService := services.NewAnalyticsService(userRepo, sessionRepo)
	reportService := services.NewReportService(userRepo, sessionRepo, logger.Logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(logger.Logger)
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	userHandler := handlers.NewUserHandler(userService, logger.Logger)
	sessionHandler := handlers.NewSessionHandler(sessionService, logger.Logger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, logger.Logger)
	reportHandler := handlers.NewReportHandler(reportService, logger.Logger)
	wsHandler := handlers.NewWSHandler(hub, logger.Logger)

	// Initialize auth middleware
	authMiddleware := auth.Middleware(tokenGenerator, userRepo)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(10 * 1024 * 1024)) // 10MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Public routes
	healthHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)
	wsHandler.RegisterRoutes(r)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		userHandler.RegisterRoutes(r)
		sessionHandler.RegisterRoutes(r)
		analyticsHandler.RegisterRoutes(r)
		reportHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
