package finance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vparedes/maricultor/internal/domain/models"
)

func monteCarloInput() models.ProjectionInput {
	investment, months, market, costs := baseInput()
	return models.ProjectionInput{
		BaseInvestment:   investment,
		ProjectionMonths: months,
		MarketVariables:  market,
		CostStructure:    costs,
	}
}

func TestMonteCarloStats(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	stats := MonteCarlo(monteCarloInput(), 500, rng)

	assert.Equal(t, 500, stats.Iterations)
	assert.LessOrEqual(t, stats.Percentile5, stats.Median)
	assert.LessOrEqual(t, stats.Median, stats.Percentile95)
	assert.Equal(t, stats.Percentile5, stats.ConfidenceInterval[0])
	assert.Equal(t, stats.Percentile95, stats.ConfidenceInterval[1])
	assert.Positive(t, stats.StdDev, "uniform input noise must spread the ROI")

	assert.GreaterOrEqual(t, stats.Mean, stats.Percentile5)
	assert.LessOrEqual(t, stats.Mean, stats.Percentile95)
}

func TestMonteCarloProbabilitiesAreOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	stats := MonteCarlo(monteCarloInput(), 500, rng)

	for _, p := range []float64{stats.ProbabilityPositive, stats.ProbabilityAbove10, stats.ProbabilityAbove20} {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
	assert.GreaterOrEqual(t, stats.ProbabilityPositive, stats.ProbabilityAbove10)
	assert.GreaterOrEqual(t, stats.ProbabilityAbove10, stats.ProbabilityAbove20)

	// The base case returns far above 20% ROI and the sampled adjustments
	// cannot push it negative, so every draw stays profitable.
	assert.InDelta(t, 100, stats.ProbabilityPositive, 1e-9)
}

func TestMonteCarloDeterministicWithSeed(t *testing.T) {
	first := MonteCarlo(monteCarloInput(), 200, rand.New(rand.NewSource(1)))
	second := MonteCarlo(monteCarloInput(), 200, rand.New(rand.NewSource(1)))

	assert.Equal(t, first, second)
}

func TestMonteCarloDefaultIterations(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	stats := MonteCarlo(monteCarloInput(), 0, rng)

	require.Equal(t, DefaultIterations, stats.Iterations)
}
