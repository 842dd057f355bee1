package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	identityerrors "github.com/flowersales/flowersales/webapp_service/internal/errors"
	"github.com/flowersales/flowersales/webapp_service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockIdentityService is a mock implementation of the IdentityService interface
type mockIdentityService struct {
	user  *service.UserDto
	error error
	email string
	calls int
}

func (m *mockIdentityService) Register(_ context.Context, _ service.CreateUserDto) (*service.UserDto, error) {
	m.calls++
	if m.error != nil {
		return nil, m.error
	}
	return m.user, nil
}

func (m *mockIdentityService) FindByID(_ context.Context, _ uuid.UUID) (*service.UserDto, error) {
	m.calls++
	if m.error != nil {
		return nil, m.error
	}
	return m.user, nil
}

func (m *mockIdentityService) FindByEmail(_ context.Context, email string) (*service.UserDto, error) {
	m.calls++
	m.email = email
	if m.error != nil {
		return nil, m.error
	}
	return m.user, nil
}

func (m *mockIdentityService) DeleteByID(_ context.Context, _ uuid.UUID) error {
	m.calls++
	return m.error
}

func newRouter(svc service.IdentityService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(r)
	return r
}

func Test_Register(t *testing.T) {
	userID := uuid.New()
	testCases := []struct {
		name           string
		body           string
		mockService    *mockIdentityService
		expectedStatus int
		expectedCalls  int
	}{
		{
			name:           "Success - user registered",
			body:           `{"user_name":"alice","email":"alice@example.com","password":"s3cret-pass"}`,
			mockService:    &mockIdentityService{user: &service.UserDto{ID: userID, UserName: "alice"}},
			expectedStatus: http.StatusCreated,
			expectedCalls:  1,
		},
		{
			name:           "Error - invalid email",
			body:           `{"user_name":"alice","email":"nope","password":"s3cret-pass"}`,
			mockService:    &mockIdentityService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Error - malformed body",
			body:           `{`,
			mockService:    &mockIdentityService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Error - duplicate",
			body:           `{"user_name":"alice","email":"alice@example.com","password":"s3cret-pass"}`,
			mockService:    &mockIdentityService{error: identityerrors.ErrUserExists},
			expectedStatus: http.StatusConflict,
			expectedCalls:  1,
		},
		{
			name:           "Error - store failure",
			body:           `{"user_name":"alice","email":"alice@example.com","password":"s3cret-pass"}`,
			mockService:    &mockIdentityService{error: errors.New("db down")},
			expectedStatus: http.StatusInternalServerError,
			expectedCalls:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodPost, "/identity/users", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			// when
			newRouter(tc.mockService).ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedCalls, tc.mockService.calls)
			if tc.expectedStatus == http.StatusCreated {
				assert.Equal(t, "/identity/users/"+userID.String(), rr.Header().Get("Location"))
				assert.NotContains(t, rr.Body.String(), "password")
			}
		})
	}
}

func Test_Register_ValidationFieldNames(t *testing.T) {
	// given
	req := httptest.NewRequest(http.MethodPost, "/identity/users", strings.NewReader(`{"email":"alice@example.com"}`))
	rr := httptest.NewRecorder()

	// when
	newRouter(&mockIdentityService{}).ServeHTTP(rr, req)

	// then
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		ValidationErrors map[string]string `json:"validation_errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "failed on rule: required", body.ValidationErrors["user_name"])
	assert.Equal(t, "failed on rule: required", body.ValidationErrors["password"])
}

func Test_FindByID(t *testing.T) {
	userID := uuid.New()
	testCases := []struct {
		name           string
		id             string
		mockService    *mockIdentityService
		expectedStatus int
	}{
		{name: "Success - found", id: userID.String(), mockService: &mockIdentityService{user: &service.UserDto{ID: userID}}, expectedStatus: http.StatusOK},
		{name: "Error - bad uuid", id: "not-a-uuid", mockService: &mockIdentityService{}, expectedStatus: http.StatusBadRequest},
		{name: "Error - not found", id: userID.String(), mockService: &mockIdentityService{error: identityerrors.ErrUserNotFound}, expectedStatus: http.StatusNotFound},
		{name: "Error - store failure", id: userID.String(), mockService: &mockIdentityService{error: errors.New("db down")}, expectedStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/identity/users/"+tc.id, nil)
			rr := httptest.NewRecorder()
			// when
			newRouter(tc.mockService).ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func Test_FindByEmail(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		mockService    *mockIdentityService
		expectedStatus int
	}{
		{name: "Success - found", query: "?email=alice@example.com", mockService: &mockIdentityService{user: &service.UserDto{UserName: "alice"}}, expectedStatus: http.StatusOK},
		{name: "Error - missing email", query: "", mockService: &mockIdentityService{}, expectedStatus: http.StatusBadRequest},
		{name: "Error - not found", query: "?email=bob@example.com", mockService: &mockIdentityService{error: identityerrors.ErrUserNotFound}, expectedStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/identity/users"+tc.query, nil)
			rr := httptest.NewRecorder()
			// when
			newRouter(tc.mockService).ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func Test_DeleteByID(t *testing.T) {
	testCases := []struct {
		name           string
		mockService    *mockIdentityService
		expectedStatus int
	}{
		{name: "Success - deleted", mockService: &mockIdentityService{}, expectedStatus: http.StatusNoContent},
		{name: "Error - not found", mockService: &mockIdentityService{error: identityerrors.ErrUserNotFound}, expectedStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodDelete, "/identity/users/"+uuid.NewString(), nil)
			rr := httptest.NewRecorder()
			// when
			newRouter(tc.mockService).ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, 1, tc.mockService.calls)
		})
	}
}

func Test_HealthCheck(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(&mockIdentityService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
