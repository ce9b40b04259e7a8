package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal-api/internal/middleware"
	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
	"github.com/noah-isme/course-portal-api/pkg/response"
)

// requireViewer returns the request viewer or writes 401 and returns false.
func requireViewer(c *gin.Context) (models.Viewer, bool) {
	if viewer, ok := middleware.ViewerFrom(c); ok {
		return viewer, true
	}
	if claims, ok := middleware.ClaimsFrom(c); ok && claims.Role.Valid() {
		return models.Viewer{UserID: claims.UserID, Role: claims.Role}, true
	}
	response.Error(c, appErrors.ErrUnauthorized)
	return models.Viewer{}, false
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
