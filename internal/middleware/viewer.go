package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
	"github.com/noah-isme/course-portal-api/pkg/response"
)

// ContextViewerKey is the gin context key storing the resolved models.Viewer.
const ContextViewerKey = "viewer"

// Viewer converts the JWT claims into a models.Viewer once per request. It must run
// after JWT.
func Viewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.UserID == "" || !claims.Role.Valid() {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(ContextViewerKey, models.Viewer{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// ViewerFrom returns the viewer stored by Viewer.
func ViewerFrom(c *gin.Context) (models.Viewer, bool) {
	value, exists := c.Get(ContextViewerKey)
	if !exists {
		return models.Viewer{}, false
	}
	viewer, ok := value.(models.Viewer)
	return viewer, ok
}

// ClaimsFrom returns the claims stored by JWT.
func ClaimsFrom(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}
