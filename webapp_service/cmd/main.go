// Package main runs the webapp identity shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowersales/flowersales/pkg/bootstrap"
	"github.com/flowersales/flowersales/pkg/config/configloader"
	"github.com/flowersales/flowersales/pkg/server"
	"github.com/flowersales/flowersales/pkg/telemetry"
	"github.com/flowersales/flowersales/webapp_service/internal/app"
	"github.com/flowersales/flowersales/webapp_service/internal/config"
	"github.com/flowersales/flowersales/webapp_service/migrations"
	"golang.org/x/sync/errgroup"
)

const serviceName = "webapp"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run applies migrations, opens the database pool and starts the HTTP and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, "webapp-service", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to create tracer provider: %w", err)
		}
		defer shutdownComponent(logger, "tracer provider", cfg.Shutdown.Context, tp.Shutdown)
	}

	if err := migrations.Up(cfg.Database.URL); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("Database migrations applied")

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	logger.Info("Successfully connected to database!")

	deps := app.SetupDependencies(dbPool, logger)
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := server.NewPprofServer(cfg.PProf.Addr, cfg.HTTPServer.Timeout.ReadHeader)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := cfg.Shutdown.Context()
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := cfg.Shutdown.Context()
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// shutdownComponent calls fn with a shutdown-bounded context and logs a failure.
func shutdownComponent(logger *slog.Logger, name string, newCtx func() (context.Context, context.CancelFunc), fn func(context.Context) error) {
	ctx, cancel := newCtx()
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Error("Shutdown failed", slog.String("component", name), slog.Any("error", err))
	}
}
