package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/marketloft/storefront/internal/storefront/http"
	"github.com/marketloft/storefront/internal/storefront/service"
	"github.com/marketloft/storefront/internal/storefront/store"
	"github.com/marketloft/storefront/internal/storefront/store/cache"
	mongostore "github.com/marketloft/storefront/internal/storefront/store/drivers/mongo"
	"github.com/marketloft/storefront/pkg/cryptox"
	"github.com/marketloft/storefront/pkg/jwtx"
	"github.com/marketloft/storefront/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the storefront service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	rdb      *redis.Client
	issuer   *jwtx.Issuer
	verifier *jwtx.Verifier

	// Services
	sessionService *service.SessionService
	userService    *service.UserService
	catalogService *service.CatalogService
	cartService    *service.CartService
	orderService   *service.OrderService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "storefront",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must be set")
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initTokens(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initCache()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("storefront starting", "port", app.cfg.Port, "version", BuildVersion)

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

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down storefront...")

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

	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(ctx); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("storefront stopped")
	return nil
}

// Handler exposes the HTTP entrypoint, for tests that mount the whole
// application on an in-process listener.
func (app *Application) Handler() http.Handler {
	return app.router
}

func (app *Application) initTokens() error {
	tokenCfg := jwtx.Config{
		AccessSecret:  []byte(app.cfg.JWTSecret),
		RefreshSecret: []byte(app.cfg.JWTRefreshSecret),
		AccessTTL:     app.cfg.AccessTokenTTL,
		RefreshTTL:    app.cfg.RefreshTokenTTL,
		Issuer:        app.cfg.TokenIssuer,
	}

	issuer, err := jwtx.NewIssuer(tokenCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	verifier, err := jwtx.NewVerifier(tokenCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	app.issuer = issuer
	app.verifier = verifier
	return nil
}

// initDatabase connects to MongoDB and ensures collection indexes
func (app *Application) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := mongostore.NewStore(ctx, app.cfg.MongoURI, app.cfg.DatabaseName)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("failed to ensure database indexes: %w", err)
	}

	app.logger.Info("database connected", "db", app.cfg.DatabaseName)
	return nil
}

// initCache sets up the optional Redis product cache. With no
// REDIS_ADDR configured the catalog reads straight from the database.
func (app *Application) initCache() {
	if app.cfg.RedisAddr == "" {
		app.logger.Info("product cache disabled")
		return
	}

	app.rdb = redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
	app.logger.Info("product cache enabled", "addr", app.cfg.RedisAddr, "ttl", app.cfg.CacheTTL)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Issuer:   app.issuer,
		Verifier: app.verifier,
	}

	app.userService = &service.UserService{
		Store:    app.db,
		Sessions: app.sessionService,
		Admin: service.AdminConfig{
			Email:      app.cfg.AdminEmail,
			Password:   app.cfg.AdminPassword,
			TOTPSecret: app.cfg.AdminTOTPSecret,
		},
	}

	products := app.db.Products()
	if app.rdb != nil {
		products = cache.NewProducts(products, app.rdb, app.cfg.CacheTTL)
	}

	app.catalogService = &service.CatalogService{Products: products}
	app.cartService = &service.CartService{Store: app.db, Products: products}
	app.orderService = &service.OrderService{Store: app.db, Products: products}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.CatalogService = app.catalogService
	router.CartService = app.cartService
	router.OrderService = app.orderService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
