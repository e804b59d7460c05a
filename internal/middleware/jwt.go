package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anointed-vessels/sponsorship-api/internal/service"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
	"github.com/anointed-vessels/sponsorship-api/pkg/response"
)

// ContextAdminKey is the gin context key storing the resolved admin.
const ContextAdminKey = "currentAdmin"

// JWT protects routes by requiring a valid bearer token that resolves to a
// stored admin account. The middleware is a pure gate: it attaches the
// admin to the context and nothing else.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "not authorized, no token"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		// The token may outlive the account; verify the admin still exists.
		admin, err := authService.GetAdmin(c.Request.Context(), claims.AdminID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAdminKey, admin)
		c.Next()
	}
}
