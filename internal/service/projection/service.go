// Package projection is the application facade over the financial scenario
// engine.
package projection

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/engine/finance"
)

// Service validates projection requests and runs the pure calculations.
type Service struct {
	defaultIterations int
	logger            *zap.Logger
}

// NewService wires a projection service instance.
func NewService(defaultIterations int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultIterations <= 0 {
		defaultIterations = finance.DefaultIterations
	}
	return &Service{defaultIterations: defaultIterations, logger: logger}
}

// Calculate runs the full scenario projection. When the request carries no
// scenarios, the standard optimistic/realistic/pessimistic set applies.
func (s *Service) Calculate(in models.ProjectionInput) (models.FinancialProjection, error) {
	if err := in.Validate(); err != nil {
		return models.FinancialProjection{}, fmt.Errorf("invalid projection input: %w", err)
	}

	if len(in.Scenarios) == 0 {
		in.Scenarios = finance.StandardScenarios()
	}

	result := finance.CalculateProjection(in)

	s.logger.Info("financial projection calculated",
		zap.Float64("investment", in.BaseInvestment),
		zap.Int("months", in.ProjectionMonths),
		zap.Float64("base_roi", result.BaseResults.ROI),
		zap.String("recommendation", result.Summary.Recommendation))

	return result, nil
}

// SimulateMonteCarlo samples the ROI distribution of a projection request.
// iterations <= 0 falls back to the configured default.
func (s *Service) SimulateMonteCarlo(in models.ProjectionInput, iterations int) (models.MonteCarloStats, error) {
	if err := in.Validate(); err != nil {
		return models.MonteCarloStats{}, fmt.Errorf("invalid projection input: %w", err)
	}

	if iterations <= 0 {
		iterations = s.defaultIterations
	}

	stats := finance.MonteCarlo(in, iterations, nil)

	s.logger.Info("monte carlo simulation finished",
		zap.Int("iterations", stats.Iterations),
		zap.Float64("mean_roi", stats.Mean),
		zap.Float64("probability_positive", stats.ProbabilityPositive))

	return stats, nil
}
