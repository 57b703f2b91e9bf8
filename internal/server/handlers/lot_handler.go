package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/repository/mongodb"
	"github.com/vparedes/maricultor/internal/service/monitoring"
)

const dateLayout = "2006-01-02"

// LotHandler handles lot registration, monitoring and investment endpoints.
type LotHandler struct {
	lots        mongodb.LotRepository
	investments mongodb.InvestmentRepository
	expenses    mongodb.ExpenseRepository
	monitoring  *monitoring.Service
	logger      *zap.Logger
}

// NewLotHandler constructs the HTTP handler adapter for lot resources.
func NewLotHandler(lots mongodb.LotRepository, investments mongodb.InvestmentRepository, expenses mongodb.ExpenseRepository, monitoringSvc *monitoring.Service, logger *zap.Logger) *LotHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LotHandler{
		lots:        lots,
		investments: investments,
		expenses:    expenses,
		monitoring:  monitoringSvc,
		logger:      logger,
	}
}

type createLotRequest struct {
	SectorID             string  `json:"sectorId"`
	LineName             string  `json:"lineName"`
	EntryDate            string  `json:"entryDate" binding:"required"`
	InitialQuantity      int     `json:"initialQuantity" binding:"required"`
	AverageSize          float64 `json:"averageSize"`
	ProjectedHarvestDate string  `json:"projectedHarvestDate"`
	Origin               struct {
		Name                 string  `json:"name"`
		MonthlyGrowthRate    float64 `json:"monthlyGrowthRate"`
		MonthlyMortalityRate float64 `json:"monthlyMortalityRate"`
		PricePerBundle       float64 `json:"pricePerBundle"`
		BundleSize           int     `json:"bundleSize"`
	} `json:"origin" binding:"required"`
}

// CreateLot registers a new seeded lot.
func (h *LotHandler) CreateLot(c *gin.Context) {
	var req createLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid lot payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entryDate must use YYYY-MM-DD"})
		return
	}

	var projectedHarvest *time.Time
	if req.ProjectedHarvestDate != "" {
		parsed, err := time.Parse(dateLayout, req.ProjectedHarvestDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "projectedHarvestDate must use YYYY-MM-DD"})
			return
		}
		projectedHarvest = &parsed
	}

	origin, err := models.NewSeedOriginParameters(req.Origin.Name, req.Origin.MonthlyGrowthRate, req.Origin.MonthlyMortalityRate, req.Origin.PricePerBundle, req.Origin.BundleSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lot, err := models.NewLotSnapshot(uuid.NewString(), req.SectorID, req.LineName, entryDate, req.InitialQuantity, req.AverageSize, projectedHarvest, origin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lots.Insert(c.Request.Context(), lot); err != nil {
		h.logger.Error("failed saving lot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save lot"})
		return
	}

	c.JSON(http.StatusCreated, lot)
}

// ListLots returns every registered lot.
func (h *LotHandler) ListLots(c *gin.Context) {
	lots, err := h.lots.FindAll(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing lots", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list lots"})
		return
	}
	c.JSON(http.StatusOK, lots)
}

// GetLot returns a single lot by id.
func (h *LotHandler) GetLot(c *gin.Context) {
	lot, err := h.lots.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "lot not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed loading lot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lot"})
		return
	}
	c.JSON(http.StatusOK, lot)
}

// GetProjection returns the growth/mortality projection of a lot. The
// optional months query parameter overrides the horizon.
func (h *LotHandler) GetProjection(c *gin.Context) {
	months := 0
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "months must be a positive integer"})
			return
		}
		months = parsed
	}

	points, err := h.monitoring.ProjectLot(c.Request.Context(), c.Param("id"), months)
	if errors.Is(err, monitoring.ErrLotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "lot not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed projecting lot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to project lot"})
		return
	}

	c.JSON(http.StatusOK, points)
}

// GetReconciliation recomputes and returns the theoretical-vs-actual rows of
// a lot.
func (h *LotHandler) GetReconciliation(c *gin.Context) {
	rows, err := h.monitoring.ReconcileLot(c.Request.Context(), c.Param("id"))
	if errors.Is(err, monitoring.ErrLotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "lot not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed reconciling lot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reconcile lot"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

type createMeasurementRequest struct {
	Date            string   `json:"date" binding:"required"`
	CurrentQuantity int      `json:"currentQuantity"`
	AverageSize     *float64 `json:"averageSize"`
	Notes           string   `json:"notes"`
}

// CreateMeasurement records a field observation for a lot.
func (h *LotHandler) CreateMeasurement(c *gin.Context) {
	var req createMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid measurement payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must use YYYY-MM-DD"})
		return
	}

	record, err := models.NewMeasurementRecord(uuid.NewString(), c.Param("id"), date, req.CurrentQuantity, req.AverageSize, req.Notes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.monitoring.RecordMeasurement(c.Request.Context(), record); err != nil {
		if errors.Is(err, monitoring.ErrLotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lot not found"})
			return
		}
		h.logger.Error("failed saving measurement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save measurement"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ListMeasurements returns a lot's observations in chronological order.
func (h *LotHandler) ListMeasurements(c *gin.Context) {
	records, err := h.monitoring.Measurements(c.Request.Context(), c.Param("id"))
	if errors.Is(err, monitoring.ErrLotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "lot not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed listing measurements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list measurements"})
		return
	}
	c.JSON(http.StatusOK, records)
}

type createInvestmentRequest struct {
	InvestorID string  `json:"investorId" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
	Percentage float64 `json:"percentage" binding:"required"`
}

// CreateInvestment registers an investor stake on a lot.
func (h *LotHandler) CreateInvestment(c *gin.Context) {
	var req createInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid investment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	investment, err := models.NewInvestment(uuid.NewString(), req.InvestorID, c.Param("id"), req.Amount, req.Percentage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.investments.Insert(c.Request.Context(), investment); err != nil {
		h.logger.Error("failed saving investment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save investment"})
		return
	}

	c.JSON(http.StatusCreated, investment)
}

// ListInvestments returns every investment on a lot.
func (h *LotHandler) ListInvestments(c *gin.Context) {
	investments, err := h.investments.FindByLot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed listing investments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list investments"})
		return
	}
	c.JSON(http.StatusOK, investments)
}

type createExpenseRequest struct {
	Date     string  `json:"date" binding:"required"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount" binding:"required"`
	Notes    string  `json:"notes"`
}

// CreateExpense records an operating expense against a lot.
func (h *LotHandler) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid expense payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must use YYYY-MM-DD"})
		return
	}

	expense, err := models.NewExpenseRecord(uuid.NewString(), c.Param("id"), date, req.Category, req.Amount, req.Notes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.expenses.Insert(c.Request.Context(), expense); err != nil {
		h.logger.Error("failed saving expense", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save expense"})
		return
	}

	c.JSON(http.StatusCreated, expense)
}
