package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/middleware"
	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

type authServiceMock struct {
	loginErr  error
	lastLogin models.LoginRequest
	lastMe    models.Viewer
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.lastLogin = req
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.LoginResponse{AccessToken: "token", User: models.UserInfo{ID: "u1", Email: req.Email}}, nil
}

func (m *authServiceMock) Me(ctx context.Context, viewer models.Viewer) (*models.UserInfo, error) {
	m.lastMe = viewer
	return &models.UserInfo{ID: viewer.UserID, Role: viewer.Role}, nil
}

func postJSON(target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc)
	c, w := postJSON("/auth/login", `{"email":"ana@example.com","password":"secret"}`)

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", svc.lastLogin.Email)
	assert.Contains(t, w.Body.String(), `"access_token":"token"`)
}

func TestAuthHandlerLoginInvalidBody(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{})
	c, w := postJSON("/auth/login", `{"email":`)

	handler.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerLoginUnauthorized(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{loginErr: appErrors.Clone(appErrors.ErrUnauthorized, "invalid credentials")})
	c, w := postJSON("/auth/login", `{"email":"ana@example.com","password":"wrong"}`)

	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestAuthHandlerMe(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc)
	c, w := newViewerContext(http.MethodGet, "/me", models.Viewer{UserID: "u1", Role: models.RoleStudent})

	handler.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", svc.lastMe.UserID)
}

func TestAuthHandlerMeRejectsInvalidClaims(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{})
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: "guest"})

	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
