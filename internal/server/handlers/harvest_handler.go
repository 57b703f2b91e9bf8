package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/service/harvest"
)

// HarvestHandler handles harvest plan lifecycle endpoints.
type HarvestHandler struct {
	svc    *harvest.Service
	logger *zap.Logger
}

// NewHarvestHandler constructs the HTTP handler adapter for harvest plans.
func NewHarvestHandler(svc *harvest.Service, logger *zap.Logger) *HarvestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HarvestHandler{svc: svc, logger: logger}
}

type createPlanRequest struct {
	LotID        string  `json:"lotId" binding:"required"`
	PlannedDate  string  `json:"plannedDate" binding:"required"`
	PricePerUnit float64 `json:"pricePerUnit" binding:"required"`
}

// CreatePlan registers a new harvest plan in the planning state.
func (h *HarvestHandler) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid harvest plan payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	planned, err := time.Parse(dateLayout, req.PlannedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plannedDate must use YYYY-MM-DD"})
		return
	}

	plan, err := models.NewHarvestPlan(uuid.NewString(), req.LotID, planned, req.PricePerUnit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.CreatePlan(c.Request.Context(), plan); err != nil {
		h.logger.Error("failed saving harvest plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save harvest plan"})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetPlan returns a single harvest plan.
func (h *HarvestHandler) GetPlan(c *gin.Context) {
	plan, err := h.svc.Plan(c.Request.Context(), c.Param("id"))
	if errors.Is(err, harvest.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "harvest plan not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed loading harvest plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load harvest plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

type updateStatusRequest struct {
	Status         models.HarvestStatus `json:"status" binding:"required"`
	ActualQuantity int                  `json:"actualQuantity"`
}

// UpdateStatus moves a plan through its state machine. Completing a plan
// triggers the automatic distribution of returns.
func (h *HarvestHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid status payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.ActualQuantity)
	if errors.Is(err, harvest.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "harvest plan not found"})
		return
	}
	if errors.Is(err, harvest.ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("failed updating harvest status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update harvest status"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ListDistributions returns the payout records of a harvest.
func (h *HarvestHandler) ListDistributions(c *gin.Context) {
	distributions, err := h.svc.Distributions(c.Request.Context(), c.Param("id"))
	if errors.Is(err, harvest.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "harvest plan not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed listing distributions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list distributions"})
		return
	}
	c.JSON(http.StatusOK, distributions)
}
