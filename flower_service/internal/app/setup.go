// Package app wires the flower service dependencies, routes and servers.
package app

import (
	"log/slog"
	"net/http"

	"github.com/flowersales/flowersales/flower_service/internal/config"
	"github.com/flowersales/flowersales/flower_service/internal/service"
	"github.com/flowersales/flowersales/flower_service/internal/store"
	"github.com/flowersales/flowersales/flower_service/internal/transport/rest"
	"github.com/flowersales/flowersales/pkg/messaging"
	"github.com/flowersales/flowersales/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

type Dependencies struct {
	FlowerService  service.FlowerService
	Logger         *slog.Logger
	MetricsHandler http.Handler
	CORSOrigins    []string
}

// SetupDependencies builds the service layer on top of the Mongo collection.
// metricsHandler may be nil, in which case /metrics is not served.
func SetupDependencies(collection *mongo.Collection, publisher messaging.Publisher, metricsHandler http.Handler, cfg *config.Config, logger *slog.Logger) *Dependencies {
	fService := service.NewService(store.NewMongoStore(collection), publisher)

	return &Dependencies{
		FlowerService:  fService,
		Logger:         logger,
		MetricsHandler: metricsHandler,
		CORSOrigins:    cfg.CORS.Origins,
	}
}

// SetupHttpHandler initializes the router for the flower API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger, corsMiddleware(deps.CORSOrigins))
	wireRoutes(mux, deps)
	return mux
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", rest.VersionHeader},
		ExposedHeaders: []string{"Location", rest.SupportedVersionsHeader},
		MaxAge:         300,
	})
}

// wireRoutes sets up the HTTP routes for the flower service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	flowerHandler := rest.NewHandler(deps.FlowerService, deps.Logger)
	flowerHandler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Handle("/metrics", deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the flower service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	handler := otelhttp.NewHandler(SetupHttpHandler(deps), "flower-service")

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler)
}

// SetupGrpcServer initializes the gRPC server exposing the standard health service.
func SetupGrpcServer(healthServer *health.Server, reflectionEnabled bool) *grpc.Server {
	opts := []grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())}
	return server.NewGRPCServer(reflectionEnabled, opts, server.HealthRegistration(healthServer))
}
