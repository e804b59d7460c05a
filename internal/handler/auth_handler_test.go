package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/middleware"
	"github.com/anointed-vessels/sponsorship-api/internal/models"
	"github.com/anointed-vessels/sponsorship-api/pkg/response"
)

func TestAuthHandlerLogin(t *testing.T) {
	repo := &fakeAdminRepo{admin: &models.Admin{
		ID:           "a1",
		Email:        "admin@example.com",
		PasswordHash: hashPassword(t, "password"),
		FullName:     "Admin",
	}}
	h := NewAuthHandler(newTestAuthService(t, repo), zap.NewNop())

	c, w := newTestContext(t)
	body, _ := json.Marshal(models.LoginRequest{Email: "admin@example.com", Password: "password"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "a1", envelope.Data.Admin.ID)
}

func TestAuthHandlerLoginBadPayload(t *testing.T) {
	h := NewAuthHandler(newTestAuthService(t, &fakeAdminRepo{}), zap.NewNop())

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	repo := &fakeAdminRepo{admin: &models.Admin{
		ID:           "a1",
		Email:        "admin@example.com",
		PasswordHash: hashPassword(t, "password"),
	}}
	h := NewAuthHandler(newTestAuthService(t, repo), zap.NewNop())

	c, w := newTestContext(t)
	body, _ := json.Marshal(models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerRegister(t *testing.T) {
	repo := &fakeAdminRepo{}
	h := NewAuthHandler(newTestAuthService(t, repo), zap.NewNop())

	c, w := newTestContext(t)
	body, _ := json.Marshal(models.RegisterRequest{Email: "new@example.com", Password: "secret1", FullName: "New Admin"})
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.admin)
	assert.Equal(t, "new@example.com", repo.admin.Email)
}

func TestAuthHandlerMe(t *testing.T) {
	h := NewAuthHandler(newTestAuthService(t, &fakeAdminRepo{}), zap.NewNop())

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Set(middleware.ContextAdminKey, &models.AdminInfo{ID: "a1", Email: "admin@example.com"})

	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.AdminInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "a1", envelope.Data.ID)
}

func TestAuthHandlerMeWithoutIdentity(t *testing.T) {
	h := NewAuthHandler(newTestAuthService(t, &fakeAdminRepo{}), zap.NewNop())

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/auth/me", nil)

	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
