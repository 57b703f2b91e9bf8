package finance

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// DefaultIterations is the Monte Carlo sample count when none is requested.
const DefaultIterations = 1000

// Sampling bounds, expressed as the full width of the uniform adjustment
// range in percent (price ±15, mortality ±20, cost ±10, volume ±10).
const (
	priceAdjustmentSpan     = 30
	mortalityAdjustmentSpan = 40
	costAdjustmentSpan      = 20
	volumeAdjustmentSpan    = 20
)

// MonteCarlo reruns the scenario simulation with uniformly random
// adjustments and characterizes the resulting ROI distribution. The random
// source is injectable so tests can fix the stream; a nil rng falls back to
// the global source.
func MonteCarlo(in models.ProjectionInput, iterations int, rng *rand.Rand) models.MonteCarloStats {
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}

	rois := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		adj := models.ScenarioAdjustments{
			PriceAdjustment:     (uniform() - 0.5) * priceAdjustmentSpan,
			MortalityAdjustment: (uniform() - 0.5) * mortalityAdjustmentSpan,
			CostAdjustment:      (uniform() - 0.5) * costAdjustmentSpan,
			VolumeAdjustment:    (uniform() - 0.5) * volumeAdjustmentSpan,
		}

		run := CalculateScenario(in.BaseInvestment, in.ProjectionMonths, in.MarketVariables, in.CostStructure, adj)
		rois = append(rois, run.ROI)
	}

	sort.Float64s(rois)

	p5 := stat.Quantile(0.05, stat.Empirical, rois, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, rois, nil)

	return models.MonteCarloStats{
		Iterations:          iterations,
		Mean:                stat.Mean(rois, nil),
		Median:              stat.Quantile(0.5, stat.Empirical, rois, nil),
		StdDev:              stat.PopStdDev(rois, nil),
		Percentile5:         p5,
		Percentile95:        p95,
		ConfidenceInterval:  [2]float64{p5, p95},
		ProbabilityPositive: shareAbove(rois, 0),
		ProbabilityAbove10:  shareAbove(rois, 10),
		ProbabilityAbove20:  shareAbove(rois, 20),
	}
}

// shareAbove returns the percentage of samples strictly above the threshold.
// The input must be sorted ascending.
func shareAbove(sorted []float64, threshold float64) float64 {
	idx := sort.SearchFloat64s(sorted, threshold)
	for idx < len(sorted) && sorted[idx] == threshold {
		idx++
	}
	return float64(len(sorted)-idx) / float64(len(sorted)) * 100
}
