package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookmory/internal/auth"
	"bookmory/internal/book"
	"bookmory/internal/catalog"
	"bookmory/internal/config"
	"bookmory/internal/httpx"
	"bookmory/internal/library"
	"bookmory/internal/logger"
	"bookmory/internal/platform/googlebooks"
	"bookmory/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bookmory: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Development: !cfg.IsProduction(),
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := openDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("database connection OK", zap.String("dsn", config.RedactDSN(cfg.DB.DSN)))

	gb := googlebooks.NewClient(googlebooks.Options{
		BaseURL: cfg.GoogleBooks.BaseURL,
		APIKey:  cfg.GoogleBooks.APIKey,
		Timeout: cfg.GoogleBooks.Timeout,
		RPS:     cfg.GoogleBooks.RPS,
	})
	if !gb.HasAPIKey() {
		log.Warn("GOOGLE_BOOKS_API_KEY not set, catalog requests use the anonymous quota")
	}
	volumes := catalog.NewCachedSource(gb, cfg.GoogleBooks.CacheSize, log.Named("catalog"))

	userService := user.NewService(user.NewPostgresRepo(pool, cfg.DB.Timeout), log.Named("user"))
	blacklist := auth.NewBlacklistPostgresRepo(pool, cfg.DB.Timeout)
	authService := auth.NewService(userService, blacklist, cfg.JWT.Secret, cfg.JWT.ExpiresIn, log.Named("auth"))
	libraryService := library.NewService(
		library.NewPostgresRepo(pool, cfg.DB.Timeout),
		book.NewPostgresRepo(pool, cfg.DB.Timeout),
		volumes,
		log.Named("library"),
	)

	rateLimit := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	if err := rateLimit.TrustProxies(cfg.TrustedProxies); err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	handler := newRouter(routerDeps{
		log:          log,
		jwtSecret:    cfg.JWT.Secret,
		blacklist:    blacklist,
		ready:        pool.Ping,
		corsOrigins:  cfg.CORSAllowedOrigins,
		enableHSTS:   cfg.EnableHSTS,
		maxBodyBytes: cfg.MaxBodyBytes,
		rateLimit:    rateLimit,
		auth:         auth.NewHTTPHandler(authService),
		users:        user.NewHTTPHandler(userService),
		catalog:      catalog.NewHTTPHandler(catalog.NewService(volumes)),
		library:      library.NewHTTPHandler(libraryService),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// catalog calls may take up to the client timeout
		WriteTimeout: cfg.GoogleBooks.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", config.RedactDSN(dsn), err)
	}
	return pool, nil
}
