package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	"github.com/anointed-vessels/sponsorship-api/internal/service"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
	"github.com/anointed-vessels/sponsorship-api/pkg/response"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{authService: authService, logger: logger}
}

// Login godoc
// @Summary Admin login
// @Description Authenticates an admin and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope{data=models.LoginResponse}
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email and password are required"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Register godoc
// @Summary Register an admin account
// @Description Creates an admin account when registration is enabled
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "New admin"
// @Success 201 {object} response.Envelope{data=models.AdminInfo}
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email, password and full name are required"))
		return
	}

	admin, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("admin registered", zap.String("admin_id", admin.ID))
	response.Created(c, admin)
}

// Me godoc
// @Summary Current admin profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.AdminInfo}
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "not authorized, no token"))
		return
	}
	response.JSON(c, http.StatusOK, admin)
}
