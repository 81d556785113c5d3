package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"clinic-admin/internal/config"
	"clinic-admin/internal/database"
	"clinic-admin/internal/handler"
	"clinic-admin/internal/middleware"
	"clinic-admin/internal/repository"
	"clinic-admin/internal/router"
	"clinic-admin/internal/service"
)

const (
	tokenCleanupInterval = 10 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

// App is the mock clinic API.
type App struct {
	server       *http.Server
	auth         *service.AuthService
	cleanupFuncs []func()
}

type Option func(*options)

type options struct {
	passwordCost int
}

// WithPasswordCost sets the bcrypt cost of the seeded accounts.
func WithPasswordCost(cost int) Option {
	return func(o *options) { o.passwordCost = cost }
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{passwordCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}

	users, err := repository.NewUserRepository(repository.DemoCredentials, o.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}

	a := &App{}

	var (
		tokens   service.TokenStore
		activity service.ActivityStore
	)
	if cfg.DatabaseURL != "" {
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.cleanupFuncs = append(a.cleanupFuncs, db.Close)

		if err := db.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		tokens = repository.NewTokenRepository(db.Pool)
		activity = repository.NewActivityRepository(db.Pool)
		slog.Info("database ready")
	} else {
		slog.Info("DATABASE_URL not set; refresh tokens are kept in memory")
		tokens = repository.NewMemoryTokenRepository()
		activity = repository.NewMemoryActivityRepository()
	}

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, users, tokens, activity)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	a.auth = authService

	authMiddleware := middleware.NewAuthMiddleware(authService)
	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, handler.CookieOptions{Name: cfg.RefreshCookieName, Secure: cfg.CookieSecure}),
		Catalog: handler.NewCatalogHandler(service.NewCatalogService()),
		Profile: handler.NewProfileHandler(authService),
	})

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go authService.StartCleanupTicker(cleanupCtx, tokenCleanupInterval)
	a.cleanupFuncs = append(a.cleanupFuncs, cleanupCancel)

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return a, nil
}

// Handler is the routed API, for serving from httptest.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) AuthService() *service.AuthService {
	return a.auth
}

// Run serves until ctx is done, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.close()
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.close()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = a.server.Shutdown(shutdownCtx)
	a.close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// Close releases background work and the database pool without serving.
func (a *App) Close() {
	a.close()
}

func (a *App) close() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.cleanupFuncs = nil
}
