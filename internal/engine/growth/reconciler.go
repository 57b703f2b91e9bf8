package growth

import (
	"math"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// criticalDeficitThreshold is the fraction of the theoretical population
// below which a shortfall is flagged critical.
const criticalDeficitThreshold = 0.20

// Reconcile compares real measurements against the theoretical curve of the
// lot, one row per measurement. Measurements are evaluated at their exact
// elapsed time, not snapped to the month grid, so irregular monitoring
// intervals compare cleanly. Always returns a non-nil slice.
func Reconcile(lot models.LotSnapshot, measurements []models.MeasurementRecord) []models.ReconciliationRow {
	rows := make([]models.ReconciliationRow, 0, len(measurements))
	initialSize := lot.InitialSize()

	for _, m := range measurements {
		months := MonthsElapsed(lot.EntryDate, m.Date)

		theoreticalSize := ExpectedSize(initialSize, lot.Origin.MonthlyGrowthRate, months)
		survival := SurvivalRate(lot.Origin.MonthlyMortalityRate, months)
		theoreticalQty := SurvivingQuantity(lot.InitialQuantity, lot.Origin.MonthlyMortalityRate, months)
		theoreticalMortality := math.Min((1-survival)*100, 100)

		qtyDiff := m.CurrentQuantity - theoreticalQty

		var qtyDiffPct float64
		if theoreticalQty != 0 {
			qtyDiffPct = float64(qtyDiff) / float64(theoreticalQty) * 100
		}

		row := models.ReconciliationRow{
			LotID:                   lot.ID,
			Date:                    m.Date,
			MonthsElapsed:           months,
			RealQuantity:            m.CurrentQuantity,
			TheoreticalQuantity:     theoreticalQty,
			QuantityDifference:      qtyDiff,
			QuantityDifferencePct:   qtyDiffPct,
			TheoreticalSize:         theoreticalSize,
			TheoreticalMortalityPct: theoreticalMortality,
			Status:                  classify(qtyDiff, theoreticalQty),
		}

		if m.AverageSize != nil {
			real := *m.AverageSize
			diff := real - theoreticalSize
			row.RealSize = &real
			row.SizeDifference = &diff

			var diffPct float64
			if theoreticalSize != 0 {
				diffPct = diff / theoreticalSize * 100
			}
			row.SizeDifferencePct = &diffPct
		}

		rows = append(rows, row)
	}

	return rows
}

func classify(qtyDiff, theoreticalQty int) models.ReconciliationStatus {
	if qtyDiff >= 0 {
		return models.ReconciliationSuperior
	}
	if theoreticalQty != 0 && math.Abs(float64(qtyDiff))/float64(theoreticalQty) > criticalDeficitThreshold {
		return models.ReconciliationCritical
	}
	return models.ReconciliationNormal
}
