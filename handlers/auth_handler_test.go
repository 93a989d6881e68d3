package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"jumpstart-backend/models"
	"jumpstart-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	adminRepo := &memAdminRepo{admins: map[string]*models.AdminUser{
		"admin@example.org": {
			ID:           uuid.New(),
			Email:        "admin@example.org",
			PasswordHash: string(hash),
		},
	}}
	authService := service.NewAuthService(adminRepo, "test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authHandler := NewAuthHandler(authService, logger)

	r := gin.New()
	r.POST("/api/auth/login", authHandler.Login)
	r.GET("/protected", AuthRequired(authService), func(c *gin.Context) {
		adminID, _ := c.Get("admin_id")
		c.JSON(http.StatusOK, gin.H{"admin_id": adminID})
	})
	return r, authService
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		r, _ := newAuthRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login",
			`{"email": "admin@example.org", "password": "hunter2"}`))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decoded := map[string]string{}
		decodeJSON(t, w, &decoded)
		assert.NotEmpty(t, decoded["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		r, _ := newAuthRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login",
			`{"email": "admin@example.org", "password": "wrong"}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		r, _ := newAuthRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", `{"email": "admin@example.org"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthRequiredMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		r, _ := newAuthRouter(t)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		r, _ := newAuthRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		r, authService := newAuthRouter(t)
		token, err := authService.Login(context.Background(), "admin@example.org", "hunter2")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
