package admin

import (
	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/models"

	"github.com/gin-gonic/gin"
)

func getAdminUsername(c *gin.Context) (string, bool) {
	return handlershared.GetAdminUsername(c)
}

func getSessionToken(c *gin.Context) (string, bool) {
	return handlershared.GetSessionToken(c)
}

func getAdminSession(c *gin.Context) (*models.AdminSession, bool) {
	value, exists := c.Get(handlershared.ContextKeyAdminSession)
	if !exists {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	session, ok := value.(*models.AdminSession)
	if !ok || session == nil {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	return session, true
}
