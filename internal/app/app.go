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

	"github.com/redis/go-redis/v9"

	httpapi "github.com/authkeep/authkeep/internal/http"
	"github.com/authkeep/authkeep/internal/revocation"
	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/internal/store"
	"github.com/authkeep/authkeep/internal/store/drivers/sqlite"
	"github.com/authkeep/authkeep/internal/tokenstore"
	"github.com/authkeep/authkeep/pkg/jwtx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the token service together: SQLite for user records,
// Redis for refresh tokens and the revocation blacklist, and the HTTP
// surface in front.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	redis *redis.Client
	codec *jwtx.Codec

	tokenStore   *tokenstore.Store
	revocations  *revocation.Registry
	tokenService *service.TokenService
	userService  *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if cfg.Secret == "" {
		return nil, errors.New("AUTHKEEP_SECRET is required")
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authkeep",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		codec: jwtx.New([]byte(cfg.Secret)),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initRedis()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("authkeep starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully stops the HTTP server and closes backing stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authkeep...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
		}
	}

	if err := app.redis.Close(); err != nil {
		app.logger.Error("error closing redis client", slogx.Err(err))
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slogx.Err(err))
		return err
	}

	app.logger.Info("authkeep stopped")
	return nil
}

// initDatabase opens the SQLite store and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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

func (app *Application) initRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
}

func (app *Application) initServices() {
	app.tokenStore = tokenstore.New(app.redis, app.cfg.StoreTimeout)
	app.revocations = revocation.NewRegistry(
		revocation.NewRedisTier(app.redis, app.cfg.StoreTimeout),
		revocation.NewLocalCache(app.cfg.BlacklistCacheSize),
		app.cfg.BlacklistCacheTTL,
		app.logger,
	)

	app.userService = service.NewUserService(app.db.Users())
	app.tokenService = service.NewTokenService(service.TokenServiceConfig{
		Codec:      app.codec,
		Tokens:     app.tokenStore,
		Revoked:    app.revocations,
		Users:      app.db.Users(),
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	})
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(httpapi.RouterConfig{
		Rules:        app.cfg.Rules,
		Codec:        app.codec,
		RefreshTTL:   app.cfg.RefreshTTL,
		BuildVersion: BuildVersion,
		Store:        app.db,
		TokenStore:   app.tokenStore,
		Logger:       app.logger,
	})
	app.router.TokenService = app.tokenService
	app.router.UserService = app.userService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
