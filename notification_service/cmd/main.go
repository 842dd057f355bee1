// Package main runs the catalog event notifier.
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
	"time"

	"github.com/flowersales/flowersales/notification_service/internal/config"
	"github.com/flowersales/flowersales/notification_service/internal/subscriber"
	"github.com/flowersales/flowersales/pkg/bootstrap"
	"github.com/flowersales/flowersales/pkg/config/configloader"
	"github.com/flowersales/flowersales/pkg/messaging"
	"github.com/flowersales/flowersales/pkg/nats"
	"github.com/flowersales/flowersales/pkg/server"
	"golang.org/x/sync/errgroup"
)

const serviceName = "notification"

const pprofReadHeaderTimeout = 2 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run connects to NATS, makes sure the catalog stream exists and runs the consumer workers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	natsConn, err := nats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return err
	}
	defer natsConn.Close()
	js, err := nats.NewJetStreamContext(natsConn)
	if err != nil {
		return err
	}
	// the notifier may start before the flower service has created the stream
	if err := nats.EnsureStream(ctx, js, cfg.NATS.Stream, messaging.FlowerSubjects); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Catalog subscriber started", slog.String("subject", cfg.Subscriber.Subject))
		err := subscriber.Start(gCtx, js, cfg.Subscriber, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("subscriber failed", "error", err)
			return err
		}
		logger.Info("subscriber stopped gracefully.")
		return nil
	})

	if cfg.PProf.Enabled {
		pprofServer := server.NewPprofServer(cfg.PProf.Addr, pprofReadHeaderTimeout)
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server")
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
