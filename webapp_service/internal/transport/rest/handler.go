// Package rest provides HTTP handlers for the identity shell.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/flowersales/flowersales/pkg/web"
	identityerrors "github.com/flowersales/flowersales/webapp_service/internal/errors"
	"github.com/flowersales/flowersales/webapp_service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.IdentityService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service service.IdentityService, logger *slog.Logger) *Handler {
	validate := validator.New()
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

// RegisterRoutes registers the identity routes and the health check.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/identity/users", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Get("/", h.FindByEmail)
		r.Get("/{id}", h.FindByID)
		r.Delete("/{id}", h.DeleteByID)
	})
	r.Get("/healthz", h.HealthCheck)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto service.CreateUserDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		if fieldErrors, ok := web.ValidationErrors(err); ok {
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", fieldErrors)
			web.RespondValidationErrors(w, h.logger, fieldErrors)
			return
		}
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Register(r.Context(), dto)
	if err != nil {
		if errors.Is(err, identityerrors.ErrUserExists) {
			h.logger.WarnContext(r.Context(), "User already exists", "UserName", dto.UserName)
			web.RespondError(w, h.logger, http.StatusConflict, "User name or email is already taken")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error registering user", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to register user")
		return
	}
	h.logger.InfoContext(r.Context(), "User registered successfully", "ID", created.ID)
	w.Header().Set("Location", "/identity/users/"+created.ID.String())
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, r, err, "Failed to retrieve user")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// FindByEmail serves GET /identity/users?email=.
func (h *Handler) FindByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		web.RespondValidationErrors(w, h.logger, map[string]string{"email": "failed on rule: required"})
		return
	}
	found, err := h.service.FindByEmail(r.Context(), email)
	if err != nil {
		h.respondLookupError(w, r, err, "Failed to retrieve user")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondLookupError(w, r, err, "Failed to delete user")
		return
	}
	h.logger.InfoContext(r.Context(), "User deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, identityerrors.ErrUserNotFound) {
		h.logger.WarnContext(r.Context(), "User not found", "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, "User not found")
		return
	}
	h.logger.ErrorContext(r.Context(), message, "error", err)
	web.RespondError(w, h.logger, http.StatusInternalServerError, message)
}
