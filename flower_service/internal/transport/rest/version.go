package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/flowersales/flowersales/flower_service/internal/service"
	"github.com/flowersales/flowersales/pkg/web"
)

const (
	// VersionHeader selects the API version. A missing header means 1.0.
	VersionHeader = "CITEMS-API-Version"
	// SupportedVersionsHeader is reported on every flower response.
	SupportedVersionsHeader = "api-supported-versions"
)

// APIVersion describes how one version of the flower API behaves.
type APIVersion struct {
	Name string
	// BaseSet is the set listings start from.
	BaseSet service.BaseSet
	// UpdateMissingStatus is returned when PUT targets a flower that does not exist.
	UpdateMissingStatus int
}

var (
	V1 = APIVersion{Name: "1.0", BaseSet: service.AllFlowers, UpdateMissingStatus: http.StatusNotFound}
	// V2 lists available flowers only and answers 400 to updates of missing flowers.
	V2 = APIVersion{Name: "2.0", BaseSet: service.AvailableFlowers, UpdateMissingStatus: http.StatusBadRequest}
)

var apiVersions = map[string]APIVersion{
	"1":   V1,
	"1.0": V1,
	"2":   V2,
	"2.0": V2,
}

var supportedVersions = strings.Join([]string{V1.Name, V2.Name}, ", ")

type apiVersionKey struct{}

// Versioning resolves the API version from VersionHeader and stores it in the request context.
// Unknown versions are rejected with 400.
func Versioning(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(SupportedVersionsHeader, supportedVersions)

			requested := strings.TrimSpace(r.Header.Get(VersionHeader))
			version := V1
			if requested != "" {
				v, ok := apiVersions[requested]
				if !ok {
					logger.WarnContext(r.Context(), "Unsupported API version", "version", requested)
					web.RespondError(w, logger, http.StatusBadRequest, "Unsupported API version")
					return
				}
				version = v
			}
			ctx := context.WithValue(r.Context(), apiVersionKey{}, version)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VersionFromContext returns the version stored by Versioning, or V1.
func VersionFromContext(ctx context.Context) APIVersion {
	if v, ok := ctx.Value(apiVersionKey{}).(APIVersion); ok {
		return v
	}
	return V1
}
