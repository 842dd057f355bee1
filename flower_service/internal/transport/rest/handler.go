// Package rest provides HTTP handlers for the versioned flower API.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	flowererrors "github.com/flowersales/flowersales/flower_service/internal/errors"
	"github.com/flowersales/flowersales/flower_service/internal/query"
	"github.com/flowersales/flowersales/flower_service/internal/service"
	"github.com/flowersales/flowersales/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// idPattern is the chi route constraint for 24 character hex ObjectIds.
const idPattern = "[0-9a-fA-F]{24}"

type Handler struct {
	service  service.FlowerService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new flower API handler backed by the given service.
func NewHandler(service service.FlowerService, logger *slog.Logger) *Handler {
	validate := validator.New()
	// report JSON field names in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		service:  service,
		validate: validate,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the flower routes and the health check.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/flowers", func(r chi.Router) {
		r.Use(Versioning(h.logger))
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id:"+idPattern+"}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll lists flowers. v1 starts from every flower, v2 from available ones.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	version := VersionFromContext(r.Context())
	params, err := query.ParseFlowerParams(r.URL.Query())
	if err != nil {
		var paramErr *query.ParamError
		if errors.As(err, &paramErr) {
			h.logger.WarnContext(r.Context(), "Invalid query parameters", "errors", paramErr.Fields)
			web.RespondValidationErrors(w, h.logger, paramErr.Fields)
			return
		}
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to list flowers", "version", version.Name, "params", params)
	list, err := h.service.FindAll(r.Context(), version.BaseSet, params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving flower list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch flowers")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved flower list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a flower by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.logger.DebugContext(r.Context(), "Received request to find flower by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, flowererrors.ErrFlowerNotFound) {
			h.logger.WarnContext(r.Context(), "Flower not found", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, "Flower with ID "+id+" not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving flower", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve flower with ID "+id)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create adds a flower and answers 201 with a Location header.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error creating flower", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to create flower")
		return
	}
	h.logger.InfoContext(r.Context(), "Flower created successfully", "ID", created.ID, "Name", created.Name)
	w.Header().Set("Location", "/flowers/"+created.ID)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// Update replaces a flower. A missing flower gives the status of the requested API version.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	version := VersionFromContext(r.Context())
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	if err := h.service.Update(r.Context(), id, input); err != nil {
		if errors.Is(err, flowererrors.ErrFlowerNotFound) {
			h.logger.WarnContext(r.Context(), "Flower not found for update", "ID", id, "version", version.Name)
			web.RespondError(w, h.logger, version.UpdateMissingStatus, "Flower with ID "+id+" not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error updating flower", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to update flower with ID "+id)
		return
	}
	h.logger.InfoContext(r.Context(), "Flower updated successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteByID deletes a flower by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, flowererrors.ErrFlowerNotFound) {
			h.logger.WarnContext(r.Context(), "Flower not found for deletion", "ID", id)
			web.RespondError(w, h.logger, http.StatusNotFound, "Flower with ID "+id+" not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error deleting flower", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to delete flower with ID "+id)
		return
	}
	h.logger.InfoContext(r.Context(), "Flower deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (service.FlowerInput, bool) {
	var input service.FlowerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return input, false
	}
	if err := h.validate.Struct(input); err != nil {
		if fieldErrors, ok := web.ValidationErrors(err); ok {
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", fieldErrors)
			web.RespondValidationErrors(w, h.logger, fieldErrors)
			return input, false
		}
		h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return input, false
	}
	return input, true
}
