package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/service/projection"
)

// ProjectionHandler handles financial projection endpoints.
type ProjectionHandler struct {
	svc    *projection.Service
	logger *zap.Logger
}

// NewProjectionHandler constructs the HTTP handler adapter for projections.
func NewProjectionHandler(svc *projection.Service, logger *zap.Logger) *ProjectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectionHandler{svc: svc, logger: logger}
}

// Calculate runs the full scenario projection for the posted input.
func (h *ProjectionHandler) Calculate(c *gin.Context) {
	var in models.ProjectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid projection payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Calculate(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// MonteCarlo samples the ROI distribution for the posted input. The optional
// iterations query parameter overrides the configured default.
func (h *ProjectionHandler) MonteCarlo(c *gin.Context) {
	var in models.ProjectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid projection payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	iterations := 0
	if raw := c.Query("iterations"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "iterations must be a positive integer"})
			return
		}
		iterations = parsed
	}

	stats, err := h.svc.SimulateMonteCarlo(in, iterations)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
