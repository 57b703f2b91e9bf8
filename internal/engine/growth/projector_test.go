package growth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vparedes/maricultor/internal/domain/models"
)

func testLot(t *testing.T, initialQuantity int, averageSize, growthRate, mortalityRate float64, projectedHarvest *time.Time) models.LotSnapshot {
	t.Helper()

	origin, err := models.NewSeedOriginParameters("Semillero Casma", growthRate, mortalityRate, 38.4, 96)
	require.NoError(t, err)

	entry := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	lot, err := models.NewLotSnapshot("lot-1", "sector-1", "Linea A-3", entry, initialQuantity, averageSize, projectedHarvest, origin)
	require.NoError(t, err)
	return lot
}

func TestProjectCompoundDecay(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 5, nil)

	points := Project(lot, 0)
	require.Len(t, points, DefaultHorizonMonths+1)

	// (0.95)^12 ~= 0.5404
	month12 := points[12]
	assert.Equal(t, 5403, month12.SurvivingQuantity)
	assert.InDelta(t, 45.96, month12.CumulativeMortalityPct, 0.05)
}

func TestProjectLinearGrowth(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 5, nil)

	points := Project(lot, 0)
	assert.InDelta(t, 26.0, points[4].ExpectedSize, 1e-9)
	assert.InDelta(t, 12.0, points[0].ExpectedSize, 1e-9)
}

func TestProjectMonotonicityAndBounds(t *testing.T) {
	lot := testLot(t, 50000, 15, 2.8, 7.5, nil)

	points := Project(lot, 0)
	require.NotEmpty(t, points)

	for i := 1; i < len(points); i++ {
		assert.LessOrEqual(t, points[i].SurvivingQuantity, points[i-1].SurvivingQuantity, "population must never grow")
		assert.GreaterOrEqual(t, points[i].ExpectedSize, points[i-1].ExpectedSize, "size must never shrink")
	}

	for _, p := range points {
		assert.GreaterOrEqual(t, p.CumulativeMortalityPct, 0.0)
		assert.LessOrEqual(t, p.CumulativeMortalityPct, 100.0)
		assert.GreaterOrEqual(t, p.SurvivingQuantity, 0)
		assert.LessOrEqual(t, p.SurvivingQuantity, lot.InitialQuantity)
	}
}

func TestProjectZeroPopulation(t *testing.T) {
	lot := testLot(t, 0, 12, 3.5, 5, nil)

	points := Project(lot, 0)
	require.NotEmpty(t, points)

	for _, p := range points {
		assert.Equal(t, 0, p.SurvivingQuantity)
		assert.Zero(t, p.CumulativeMortalityPct)
	}
}

func TestProjectMonthZeroHasNoDecay(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 5, nil)

	points := Project(lot, 0)
	first := points[0]
	assert.Equal(t, 0, first.Month)
	assert.Equal(t, 10000, first.SurvivingQuantity)
	assert.Zero(t, first.CumulativeMortalityPct)
	assert.Zero(t, first.MonthlyMortalityPct)
	assert.Equal(t, models.StageSeeded, first.Status)
}

func TestProjectStageThresholds(t *testing.T) {
	// 12mm + 3.5mm/month crosses 45mm during month 10 and 60mm during month 14.
	lot := testLot(t, 10000, 12, 3.5, 5, nil)

	points := Project(lot, 0)
	assert.Equal(t, models.StageGrowing, points[1].Status)
	assert.Equal(t, models.StageGrowing, points[9].Status, "45mm not reached yet")
	assert.Equal(t, models.StageReady, points[10].Status)
	assert.Equal(t, models.StageReady, points[13].Status, "60mm not reached yet")
	assert.Equal(t, models.StageMature, points[14].Status)
}

func TestProjectStageNeedsBothMonthAndSize(t *testing.T) {
	// Fast growth: 45mm already at month 3, but ready requires month 4.
	lot := testLot(t, 10000, 40, 5, 5, nil)

	points := Project(lot, 0)
	assert.Equal(t, models.StageGrowing, points[3].Status)
	assert.Equal(t, models.StageReady, points[4].Status)
}

func TestProjectHorizonFromHarvestDate(t *testing.T) {
	harvest := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	lot := testLot(t, 10000, 12, 3.5, 5, &harvest)

	points := Project(lot, 0)
	require.NotEmpty(t, points)

	last := points[len(points)-1]
	assert.False(t, last.Date.After(harvest), "no point may pass the harvest date")
	assert.Less(t, len(points), DefaultHorizonMonths)
	assert.True(t, last.IsHarvestMonth)
}

func TestProjectHorizonOverride(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 5, nil)

	points := Project(lot, 6)
	require.NotEmpty(t, points)
	assert.Equal(t, 6, points[len(points)-1].Month)
}

func TestProjectHorizonClampedToOneMonth(t *testing.T) {
	harvest := time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC) // 10 days after entry
	lot := testLot(t, 10000, 12, 3.5, 5, &harvest)

	points := Project(lot, 0)
	require.NotEmpty(t, points)
	assert.Equal(t, 0, points[0].Month)
}

func TestProjectDefaultInitialSize(t *testing.T) {
	lot := testLot(t, 10000, 0, 3.5, 5, nil)

	points := Project(lot, 0)
	assert.InDelta(t, models.DefaultInitialSizeMM, points[0].ExpectedSize, 1e-9)
}

func TestProjectBundleEstimate(t *testing.T) {
	lot := testLot(t, 9600, 12, 3.5, 0, nil)

	points := Project(lot, 0)
	assert.Equal(t, 100, points[0].SurvivingBundlesEstimate)
}

func TestMonthsElapsedNeverNegative(t *testing.T) {
	later := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Zero(t, MonthsElapsed(later, earlier))
	assert.InDelta(t, 59.0/DaysPerMonth, MonthsElapsed(earlier, later), 1e-9)
}
