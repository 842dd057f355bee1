// Package app wires the identity shell dependencies and HTTP server.
package app

import (
	"log/slog"
	"net/http"

	"github.com/flowersales/flowersales/pkg/server"
	"github.com/flowersales/flowersales/webapp_service/internal/config"
	"github.com/flowersales/flowersales/webapp_service/internal/service"
	"github.com/flowersales/flowersales/webapp_service/internal/store"
	"github.com/flowersales/flowersales/webapp_service/internal/transport/rest"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Dependencies struct {
	IdentityService service.IdentityService
	Logger          *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		IdentityService: service.NewService(store.NewPgStore(dbPool)),
		Logger:          logger,
	}
}

// SetupHttpHandler initializes the router for the identity endpoints.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	rest.NewHandler(deps.IdentityService, deps.Logger).RegisterRoutes(mux)
	return mux
}

func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	handler := otelhttp.NewHandler(SetupHttpHandler(deps), "webapp-service")

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
