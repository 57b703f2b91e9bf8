package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/service/projection"
)

func projectionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewProjectionHandler(projection.NewService(100, nil), nil)

	r := gin.New()
	r.POST("/projections/financial", h.Calculate)
	r.POST("/projections/financial/montecarlo", h.MonteCarlo)
	return r
}

const projectionBody = `{
	"baseInvestment": 10000,
	"projectionMonths": 12,
	"marketVariables": {"pricePerUnit": 2.5, "mortalityRate": 20, "growthRate": 80, "cycleMonths": 6},
	"costStructure": {"seedCostPerUnit": 0.5, "maintenanceCostMonthly": 100, "harvestCostPerUnit": 0.1, "fixedCostsMonthly": 50}
}`

func TestCalculateProjectionEndpoint(t *testing.T) {
	r := projectionRouter()

	req := httptest.NewRequest(http.MethodPost, "/projections/financial", strings.NewReader(projectionBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.FinancialProjection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.InDelta(t, 189.2, result.BaseResults.ROI, 1e-6)
	assert.Len(t, result.ScenarioResults, 3, "standard scenarios apply when none are posted")
	assert.NotEmpty(t, result.Summary.Recommendation)
}

func TestCalculateProjectionEndpointRejectsInvalidInput(t *testing.T) {
	r := projectionRouter()

	body := strings.Replace(projectionBody, `"baseInvestment": 10000`, `"baseInvestment": -1`, 1)
	req := httptest.NewRequest(http.MethodPost, "/projections/financial", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateProjectionEndpointRejectsMalformedJSON(t *testing.T) {
	r := projectionRouter()

	req := httptest.NewRequest(http.MethodPost, "/projections/financial", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonteCarloEndpoint(t *testing.T) {
	r := projectionRouter()

	req := httptest.NewRequest(http.MethodPost, "/projections/financial/montecarlo?iterations=50", strings.NewReader(projectionBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats models.MonteCarloStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 50, stats.Iterations)
}

func TestMonteCarloEndpointRejectsBadIterations(t *testing.T) {
	r := projectionRouter()

	req := httptest.NewRequest(http.MethodPost, "/projections/financial/montecarlo?iterations=nope", strings.NewReader(projectionBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
