// Package growth implements the population projection model for seeded lots:
// linear size growth plus compound mortality decay, evaluated on a fixed
// 30.44-day month grid.
package growth

import (
	"math"
	"time"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// DaysPerMonth is the fixed average month length used for every elapsed-time
// conversion in this package. The projector and the reconciler must share it
// so that reconciliation at integral month boundaries reproduces the
// projected values exactly.
const DaysPerMonth = 30.44

// DefaultHorizonMonths bounds a projection when the lot has no projected
// harvest date.
const DefaultHorizonMonths = 24

// Growth stage thresholds. These are business constants of the operation,
// not per-origin parameters.
const (
	readyMinMonths  = 4
	readyMinSizeMM  = 45.0
	matureMinMonths = 12
	matureMinSizeMM = 60.0
)

// Project produces the month-by-month projection for a lot, starting at
// month 0 (no decay applied) and ending at the resolved horizon. A positive
// horizonOverrideMonths replaces the lot's own horizon.
func Project(lot models.LotSnapshot, horizonOverrideMonths int) []models.ProjectionPoint {
	endDate := resolveHorizonEnd(lot, horizonOverrideMonths)

	totalMonths := int(math.Ceil(endDate.Sub(lot.EntryDate).Hours() / 24 / DaysPerMonth))
	maxMonths := totalMonths
	if maxMonths < 1 {
		maxMonths = 1
	}

	initialSize := lot.InitialSize()
	points := make([]models.ProjectionPoint, 0, maxMonths+1)

	for month := 0; month <= maxMonths; month++ {
		date := lot.EntryDate.AddDate(0, month, 0)
		if date.After(endDate) {
			break
		}

		expectedSize := ExpectedSize(initialSize, lot.Origin.MonthlyGrowthRate, float64(month))
		surviving := SurvivingQuantity(lot.InitialQuantity, lot.Origin.MonthlyMortalityRate, float64(month))

		monthlyMortality := lot.Origin.MonthlyMortalityRate
		if month == 0 {
			monthlyMortality = 0
		}

		bundleSize := lot.Origin.BundleSize
		if bundleSize <= 0 {
			bundleSize = models.UnitsPerBundle
		}

		points = append(points, models.ProjectionPoint{
			Month:                    month,
			Date:                     date,
			ExpectedSize:             expectedSize,
			SurvivingQuantity:        surviving,
			CumulativeMortalityPct:   cumulativeMortality(lot.InitialQuantity, surviving),
			MonthlyMortalityPct:      monthlyMortality,
			Status:                   stageFor(month, expectedSize),
			IsHarvestMonth:           isHarvestMonth(lot, date),
			SurvivingBundlesEstimate: surviving / bundleSize,
		})
	}

	return points
}

// ExpectedSize evaluates the linear growth model at a (possibly fractional)
// month offset.
func ExpectedSize(initialSize, monthlyGrowthRate, months float64) float64 {
	return initialSize + months*monthlyGrowthRate
}

// SurvivalRate evaluates the compound mortality decay at a (possibly
// fractional) month offset.
func SurvivalRate(monthlyMortalityPct, months float64) float64 {
	return math.Pow(1-monthlyMortalityPct/100, months)
}

// SurvivingQuantity floors the decayed population to whole animals.
func SurvivingQuantity(initialQuantity int, monthlyMortalityPct, months float64) int {
	return int(math.Floor(float64(initialQuantity) * SurvivalRate(monthlyMortalityPct, months)))
}

// MonthsElapsed converts a real duration between two dates into fractional
// months using the fixed divisor. Never negative.
func MonthsElapsed(from, to time.Time) float64 {
	months := to.Sub(from).Hours() / 24 / DaysPerMonth
	if months < 0 {
		return 0
	}
	return months
}

func resolveHorizonEnd(lot models.LotSnapshot, overrideMonths int) time.Time {
	if overrideMonths > 0 {
		return lot.EntryDate.AddDate(0, overrideMonths, 0)
	}
	if lot.ProjectedHarvestDate != nil {
		return *lot.ProjectedHarvestDate
	}
	return lot.EntryDate.AddDate(0, DefaultHorizonMonths, 0)
}

// cumulativeMortality guards the empty-lot case: 0/0 is 0%, never NaN.
func cumulativeMortality(initialQuantity, surviving int) float64 {
	if initialQuantity == 0 {
		return 0
	}
	pct := float64(initialQuantity-surviving) / float64(initialQuantity) * 100
	return math.Min(math.Max(pct, 0), 100)
}

func stageFor(month int, expectedSize float64) models.GrowthStage {
	stage := models.StageSeeded
	if month >= 1 {
		stage = models.StageGrowing
	}
	if month >= readyMinMonths && expectedSize >= readyMinSizeMM {
		stage = models.StageReady
	}
	if month >= matureMinMonths && expectedSize >= matureMinSizeMM {
		stage = models.StageMature
	}
	return stage
}

func isHarvestMonth(lot models.LotSnapshot, date time.Time) bool {
	if lot.ProjectedHarvestDate == nil {
		return false
	}
	h := *lot.ProjectedHarvestDate
	return date.Month() == h.Month() && date.Year() == h.Year()
}
