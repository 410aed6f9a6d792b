package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/referral/internal/referral/http"
	"github.com/aussiebroadwan/referral/internal/referral/service"
	"github.com/aussiebroadwan/referral/internal/referral/store"
	"github.com/aussiebroadwan/referral/internal/referral/store/drivers/sqlite"
	"github.com/aussiebroadwan/referral/pkg/cryptox"
	"github.com/aussiebroadwan/referral/pkg/jwtx"
	"github.com/aussiebroadwan/referral/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the referral service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	verifier jwtx.Verifier

	// Services
	codeService         *service.CodeService
	attributionService  *service.AttributionService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "referral-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("REFERRAL_JWT_SECRET is required")
	}
	if len(cfg.ServiceTokens) == 0 {
		app.logger.Warn("no service tokens configured, internal endpoints will reject everything")
	}

	app.verifier = jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("referral service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down referral service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("referral service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	validator := service.NewCodeValidator(app.cfg.ReservedCodes, app.cfg.ProfanityWords)

	app.codeService = service.NewCodeService(app.db, validator)
	app.codeService.UpdateLimit = app.cfg.UpdateLimit
	app.codeService.UpdateWindow = app.cfg.UpdateWindow
	app.codeService.ValidateLimit = app.cfg.ValidateLimit
	app.codeService.ValidateWindow = app.cfg.ValidateWindow

	app.attributionService = &service.AttributionService{
		Store:     app.db,
		Validator: validator,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	// Only token fingerprints live past startup.
	serviceTokens := make(map[string]string, len(app.cfg.ServiceTokens))
	for name, token := range app.cfg.ServiceTokens {
		serviceTokens[name] = cryptox.FingerprintToken(token)
	}

	router := httpapi.NewRouter(
		app.verifier,
		serviceTokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.CodeService = app.codeService
	router.AttributionService = app.attributionService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
