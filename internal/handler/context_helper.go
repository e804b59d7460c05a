package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/anointed-vessels/sponsorship-api/internal/middleware"
	"github.com/anointed-vessels/sponsorship-api/internal/models"
)

// currentAdmin returns the admin attached by the JWT middleware.
func currentAdmin(c *gin.Context) (*models.AdminInfo, bool) {
	value, ok := c.Get(middleware.ContextAdminKey)
	if !ok {
		return nil, false
	}
	admin, ok := value.(*models.AdminInfo)
	return admin, ok
}
