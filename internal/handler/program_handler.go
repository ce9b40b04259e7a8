package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal-api/internal/models"
	"github.com/noah-isme/course-portal-api/pkg/response"
)

type programStats interface {
	Stats(ctx context.Context) ([]models.ProgramStats, error)
}

// ProgramHandler serves program registration statistics.
type ProgramHandler struct {
	service programStats
}

// NewProgramHandler creates a new handler.
func NewProgramHandler(svc programStats) *ProgramHandler {
	return &ProgramHandler{service: svc}
}

// Stats godoc
// @Summary Program registration statistics
// @Description Registrations grouped by program and status with attendee totals
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /programs/stats [get]
func (h *ProgramHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{"programs": len(stats)})
}
