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

	"go.uber.org/zap"

	"activityhub/internal/config"
	"activityhub/internal/database"
	"activityhub/internal/handlers"
	"activityhub/internal/logging"
	"activityhub/internal/repository"
	"activityhub/internal/security"
	"activityhub/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Dir: cfg.LogDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("database connection established", zap.String("type", cfg.DatabaseType))

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("migrations completed")

	// Initialize repositories
	responseRepo := repository.NewResponseRepository(db)
	rosterRepo := repository.NewRosterRepository(db)

	// Initialize services
	statsService := service.NewStatsService(responseRepo, service.StatsOptions{
		Timeout:  cfg.StoreTimeout,
		PageSize: cfg.ScanPageSize,
	}, log.Named("stats"))
	puzzleService := service.NewPuzzleService(responseRepo, rosterRepo, log.Named("puzzle"))

	clientIPs, err := security.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse TRUSTED_PROXIES: %w", err)
	}
	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, clientIPs)
	defer limiter.Stop()

	// Setup routes
	handler := handlers.Router{
		Stats:     handlers.NewStatsHandler(statsService, log),
		Puzzles:   handlers.NewPuzzleHandler(puzzleService, log),
		Health:    handlers.NewHealthHandler(db, log),
		RateLimit: limiter.Middleware,
		ClientIPs: clientIPs,
	}.Handler(log.Named("http"))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}
