package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/handler"
	"github.com/noah-isme/course-portal-api/internal/models"
	"github.com/noah-isme/course-portal-api/internal/service"
)

type staticUsers struct{}

func (staticUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (staticUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Role: models.RoleAdmin}, nil
}

type staticRegistrations struct{}

func (staticRegistrations) ListRegistrations(ctx context.Context) ([]models.ProgramRegistration, error) {
	return []models.ProgramRegistration{{ID: "r1", ProgramName: "Summer Camp"}}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth := service.NewAuthService(staticUsers{}, nil, nil, service.AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour})
	metrics := service.NewMetricsService()
	router := NewRouter(Options{
		APIPrefix: "/api/v1",
		Metrics:   metrics,
		Tokens:    auth,
	}, Handlers{
		Auth:        handler.NewAuthHandler(auth),
		Courses:     handler.NewCourseHandler(nil, nil, nil, nil, nil, nil),
		Programs:    handler.NewProgramHandler(service.NewProgramService(staticRegistrations{}, nil)),
		Attachments: handler.NewAttachmentHandler(nil, nil, nil),
		Metrics:     handler.NewMetricsHandler(metrics, nil),
	})
	return router, auth
}

func bearer(t *testing.T, auth *service.AuthService, role models.UserRole) string {
	t.Helper()
	token, _, err := auth.IssueToken(&models.User{ID: "u-" + string(role), Email: string(role) + "@example.com", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouterRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterAdminRoutes(t *testing.T) {
	router, auth := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/programs/stats", nil)
	req.Header.Set("Authorization", bearer(t, auth, models.RoleStudent))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/programs/stats", nil)
	req.Header.Set("Authorization", bearer(t, auth, models.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Summer Camp")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/courses/c1/welcome-emails", nil)
	req.Header.Set("Authorization", bearer(t, auth, models.RoleStudent))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
