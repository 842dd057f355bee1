// Package main runs the versioned flower catalog API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowersales/flowersales/flower_service/internal/app"
	"github.com/flowersales/flowersales/flower_service/internal/config"
	"github.com/flowersales/flowersales/pkg/bootstrap"
	"github.com/flowersales/flowersales/pkg/config/configloader"
	"github.com/flowersales/flowersales/pkg/messaging"
	pnats "github.com/flowersales/flowersales/pkg/nats"
	"github.com/flowersales/flowersales/pkg/server"
	"github.com/flowersales/flowersales/pkg/telemetry"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"
)

const serviceName = "flowers"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads configuration, connects to MongoDB and NATS, and starts the HTTP, gRPC and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, "flower-service", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to create tracer provider: %w", err)
		}
		defer shutdownComponent(logger, "tracer provider", cfg.Shutdown.Context, tp.Shutdown)
	}
	mp, metricsHandler, err := telemetry.NewMeterProvider("flower-service")
	if err != nil {
		return fmt.Errorf("failed to create meter provider: %w", err)
	}
	defer shutdownComponent(logger, "meter provider", cfg.Shutdown.Context, mp.Shutdown)

	mongoClient, err := bootstrap.NewMongoClient(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer shutdownComponent(logger, "mongo client", cfg.Shutdown.Context, mongoClient.Disconnect)
	logger.Info("Successfully connected to MongoDB!")
	collection := mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.NATS.Enabled {
		nc, err := pnats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
		if err != nil {
			return err
		}
		defer nc.Close()
		js, err := pnats.NewJetStreamContext(nc)
		if err != nil {
			return err
		}
		if err := pnats.EnsureStream(ctx, js, cfg.NATS.Stream, messaging.FlowerSubjects); err != nil {
			return err
		}
		publisher = pnats.NewNatsPublisher(js)
		logger.Info("Publishing catalog events to NATS", slog.String("stream", cfg.NATS.Stream))
	}

	deps := app.SetupDependencies(collection, publisher, metricsHandler, cfg, logger)
	healthServer := health.NewServer()
	httpServer := app.SetupHttpServer(deps, cfg)
	grpcServer := app.SetupGrpcServer(healthServer, cfg.GRPC.ReflectionEnabled)
	pprofServer := server.NewPprofServer(cfg.PProf.Addr, cfg.HTTPServer.Timeout.ReadHeader)

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := cfg.Shutdown.Context()
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the gRPC server
	g.Go(func() error {
		grpcAddr := ":" + cfg.GRPC.Port
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
		return grpcServer.Serve(lis)
	})
	// gracefully shutdown gRPC server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down gRPC server...")
		healthServer.Shutdown()
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
			logger.Info("gRPC server stopped gracefully.")
			return nil
		case <-time.After(cfg.Shutdown.Timeout):
			logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
			grpcServer.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
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
