package growth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vparedes/maricultor/internal/domain/models"
)

func measurementAt(t *testing.T, lotID string, date time.Time, quantity int, size *float64) models.MeasurementRecord {
	t.Helper()
	m, err := models.NewMeasurementRecord("m-1", lotID, date, quantity, size, "")
	require.NoError(t, err)
	return m
}

func TestReconcileEmptyMeasurements(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 5, nil)

	rows := Reconcile(lot, nil)
	require.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestReconcileClassification(t *testing.T) {
	// Zero mortality keeps the theoretical population at 10000, so the
	// deficit percentages below are exact.
	lot := testLot(t, 10000, 12, 3.5, 0, nil)
	date := lot.EntryDate.AddDate(0, 0, 61)

	cases := []struct {
		name     string
		real     int
		wantPct  float64
		wantStat models.ReconciliationStatus
	}{
		{"ten percent short is normal", 9000, -10, models.ReconciliationNormal},
		{"thirty percent short is critical", 7000, -30, models.ReconciliationCritical},
		{"exactly at threshold stays normal", 8000, -20, models.ReconciliationNormal},
		{"match is superior", 10000, 0, models.ReconciliationSuperior},
		{"surplus is superior", 10500, 5, models.ReconciliationSuperior},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := Reconcile(lot, []models.MeasurementRecord{
				measurementAt(t, lot.ID, date, tc.real, nil),
			})
			require.Len(t, rows, 1)

			row := rows[0]
			assert.Equal(t, 10000, row.TheoreticalQuantity)
			assert.Equal(t, tc.real-10000, row.QuantityDifference)
			assert.InDelta(t, tc.wantPct, row.QuantityDifferencePct, 1e-9)
			assert.Equal(t, tc.wantStat, row.Status)
		})
	}
}

func TestReconcileMatchesProjectionAtMonthBoundaries(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 5, nil)
	points := Project(lot, 0)

	for _, month := range []int{3, 6, 9, 12} {
		elapsed := time.Duration(float64(month) * DaysPerMonth * 24 * float64(time.Hour))
		date := lot.EntryDate.Add(elapsed)

		rows := Reconcile(lot, []models.MeasurementRecord{
			measurementAt(t, lot.ID, date, points[month].SurvivingQuantity, nil),
		})
		require.Len(t, rows, 1)

		row := rows[0]
		assert.InDelta(t, float64(month), row.MonthsElapsed, 1e-9)
		assert.Equal(t, points[month].SurvivingQuantity, row.TheoreticalQuantity)
		assert.InDelta(t, points[month].ExpectedSize, row.TheoreticalSize, 1e-9)
		assert.Equal(t, models.ReconciliationSuperior, row.Status)
	}
}

func TestReconcileEmptyLotGuards(t *testing.T) {
	lot := testLot(t, 0, 12, 3.5, 5, nil)
	date := lot.EntryDate.AddDate(0, 2, 0)

	rows := Reconcile(lot, []models.MeasurementRecord{
		measurementAt(t, lot.ID, date, 0, nil),
	})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 0, row.TheoreticalQuantity)
	assert.Zero(t, row.QuantityDifferencePct)
	assert.Equal(t, models.ReconciliationSuperior, row.Status)
}

func TestReconcileSizeComparison(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 0, nil)
	// 2 months on the 30.44-day grid, exactly.
	date := lot.EntryDate.Add(time.Duration(2 * DaysPerMonth * 24 * float64(time.Hour)))

	size := 20.9 // 10% above the theoretical 19mm
	rows := Reconcile(lot, []models.MeasurementRecord{
		measurementAt(t, lot.ID, date, 10000, &size),
	})
	require.Len(t, rows, 1)

	row := rows[0]
	require.NotNil(t, row.RealSize)
	require.NotNil(t, row.SizeDifference)
	require.NotNil(t, row.SizeDifferencePct)
	assert.InDelta(t, 19.0, row.TheoreticalSize, 1e-9)
	assert.InDelta(t, 1.9, *row.SizeDifference, 1e-9)
	assert.InDelta(t, 10.0, *row.SizeDifferencePct, 1e-9)
}

func TestReconcileWithoutSizeLeavesSizeFieldsNil(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 5, nil)

	rows := Reconcile(lot, []models.MeasurementRecord{
		measurementAt(t, lot.ID, lot.EntryDate.AddDate(0, 1, 0), 9000, nil),
	})
	require.Len(t, rows, 1)

	assert.Nil(t, rows[0].RealSize)
	assert.Nil(t, rows[0].SizeDifference)
	assert.Nil(t, rows[0].SizeDifferencePct)
}

func TestReconcileTheoreticalMortality(t *testing.T) {
	lot := testLot(t, 10000, 12, 3.5, 5, nil)
	date := lot.EntryDate.Add(time.Duration(12 * DaysPerMonth * 24 * float64(time.Hour)))

	rows := Reconcile(lot, []models.MeasurementRecord{
		measurementAt(t, lot.ID, date, 5000, nil),
	})
	require.Len(t, rows, 1)

	// 1 - (0.95)^12 ~= 45.96%
	assert.InDelta(t, 45.96, rows[0].TheoreticalMortalityPct, 0.05)
}
