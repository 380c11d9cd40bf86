package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/crucial707/secure-notes/internal/config"
	"github.com/crucial707/secure-notes/internal/db"
)

func main() {
	configPath := pflag.String("config", os.Getenv("NOTES_CONFIG"), "YAML config file (env NOTES_CONFIG); environment variables override it")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit")
	pflag.Parse()

	// Load configuration
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("using the built-in development JWT secret; set JWT_SECRET before exposing this server")
	}

	// Migrate schema
	migrationURL, err := db.MigrationURL(cfg)
	if err != nil {
		logger.Error("build migration url", "error", err)
		os.Exit(1)
	}
	if err := db.Run(cfg.DBDriver, migrationURL); err != nil {
		logger.Error("apply migrations", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	if *migrateOnly {
		logger.Info("migrations applied", "driver", cfg.DBDriver)
		return
	}

	// Connect to database
	database, err := db.Connect(cfg)
	if err != nil {
		logger.Error("connect to database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer database.Close()
	logger.Info("connected to database", "driver", cfg.DBDriver)

	handler, err := newRouter(database, cfg, logger)
	if err != nil {
		logger.Error("build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "tls", cfg.TLSEnabled(), "env", cfg.Env)
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			database.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
