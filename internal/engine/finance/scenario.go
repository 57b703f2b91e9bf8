// Package finance implements the standalone investment projection model:
// cycle-based cash-flow simulation, scenario adjustments, risk weighting and
// Monte Carlo sampling. Its single-shot yield formula is a different model
// from the compound-decay population projection and the two are kept apart
// on purpose.
package finance

import (
	"math"
	"time"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// CalculateProjection runs the base scenario, applies risk factors, reruns
// every supplied scenario and computes the probability-weighted averages.
func CalculateProjection(in models.ProjectionInput) models.FinancialProjection {
	base := CalculateBaseScenario(in.BaseInvestment, in.ProjectionMonths, in.MarketVariables, in.CostStructure)
	riskAdjusted := ApplyRiskFactors(base, in.RiskFactors)

	outcomes := make([]models.ScenarioOutcome, 0, len(in.Scenarios))
	for _, sc := range in.Scenarios {
		outcomes = append(outcomes, models.ScenarioOutcome{
			Scenario: sc,
			Results:  CalculateScenario(in.BaseInvestment, in.ProjectionMonths, in.MarketVariables, in.CostStructure, sc.Adjustments),
		})
	}

	weighted := CalculateWeightedResults(outcomes)

	return models.FinancialProjection{
		BaseResults:         base,
		RiskAdjustedResults: riskAdjusted,
		ScenarioResults:     outcomes,
		WeightedResults:     weighted,
		Summary:             buildSummary(base, riskAdjusted, weighted),
		CalculatedAt:        time.Now().UTC(),
	}
}

// CalculateBaseScenario simulates the month-by-month cash flow. Recurring
// costs apply every month; at the end of each production cycle a harvest
// event books revenue from the single-shot yield formula.
func CalculateBaseScenario(investment float64, months int, market models.MarketVariables, costs models.CostStructure) models.ScenarioResults {
	cycles := months / market.CycleMonths
	monthly := make([]models.MonthlyCashFlow, 0, months)

	cumulativeCashFlow := -investment
	totalRevenue := 0.0
	totalCosts := investment

	for month := 1; month <= months; month++ {
		cycleNumber := (month-1)/market.CycleMonths + 1
		monthInCycle := (month-1)%market.CycleMonths + 1

		monthlyCosts := costs.MaintenanceCostMonthly + costs.FixedCostsMonthly
		totalCosts += monthlyCosts
		cumulativeCashFlow -= monthlyCosts

		var monthlyRevenue float64
		if monthInCycle == market.CycleMonths && cycleNumber <= cycles {
			seedQuantity := investment / (costs.SeedCostPerUnit * float64(cycles))
			survivingQuantity := seedQuantity * (1 - market.MortalityRate/100)
			harvestQuantity := survivingQuantity * (market.GrowthRate / 100)

			monthlyRevenue = harvestQuantity * market.PricePerUnit
			harvestCosts := harvestQuantity * costs.HarvestCostPerUnit

			totalRevenue += monthlyRevenue
			totalCosts += harvestCosts
			cumulativeCashFlow += monthlyRevenue - harvestCosts
		}

		var monthROI float64
		if investment > 0 {
			monthROI = ((cumulativeCashFlow+investment)/investment - 1) * 100
		}

		monthly = append(monthly, models.MonthlyCashFlow{
			Month:              month,
			Revenue:            monthlyRevenue,
			Costs:              monthlyCosts,
			NetIncome:          monthlyRevenue - monthlyCosts,
			CumulativeCashFlow: cumulativeCashFlow,
			ROI:                monthROI,
		})
	}

	netProfit := totalRevenue - totalCosts

	var roi float64
	if investment > 0 {
		roi = netProfit / investment * 100
	}

	return models.ScenarioResults{
		MonthlyData:          monthly,
		TotalRevenue:         totalRevenue,
		TotalCosts:           totalCosts,
		NetProfit:            netProfit,
		ROI:                  roi,
		PaybackPeriod:        paybackPeriod(monthly),
		IRR:                  simplifiedIRR(monthly, investment),
		Cycles:               cycles,
		AverageMonthlyReturn: netProfit / float64(months),
	}
}

// CalculateScenario applies the percentage adjustments to market and cost
// inputs and reruns the base simulation.
func CalculateScenario(investment float64, months int, market models.MarketVariables, costs models.CostStructure, adj models.ScenarioAdjustments) models.ScenarioResults {
	adjustedMarket := models.MarketVariables{
		PricePerUnit:  market.PricePerUnit * (1 + adj.PriceAdjustment/100),
		MortalityRate: market.MortalityRate * (1 + adj.MortalityAdjustment/100),
		GrowthRate:    market.GrowthRate * (1 + adj.VolumeAdjustment/100),
		CycleMonths:   market.CycleMonths,
	}

	adjustedCosts := models.CostStructure{
		SeedCostPerUnit:        costs.SeedCostPerUnit * (1 + adj.CostAdjustment/100),
		MaintenanceCostMonthly: costs.MaintenanceCostMonthly * (1 + adj.CostAdjustment/100),
		HarvestCostPerUnit:     costs.HarvestCostPerUnit * (1 + adj.CostAdjustment/100),
		FixedCostsMonthly:      costs.FixedCostsMonthly * (1 + adj.CostAdjustment/100),
	}

	return CalculateBaseScenario(investment, months, adjustedMarket, adjustedCosts)
}

// ApplyRiskFactors scales revenue, profit and ROI by the aggregate risk
// multiplier. The sum of risk factors caps out at a 50% reduction.
func ApplyRiskFactors(results models.ScenarioResults, riskFactors map[string]float64) models.RiskAdjustedResults {
	var totalRisk float64
	for _, risk := range riskFactors {
		totalRisk += risk
	}
	totalRisk /= 100

	riskMultiplier := 1 - totalRisk/2

	adjusted := results
	adjusted.TotalRevenue = results.TotalRevenue * riskMultiplier
	adjusted.NetProfit = results.NetProfit * riskMultiplier
	adjusted.ROI = results.ROI * riskMultiplier

	return models.RiskAdjustedResults{
		ScenarioResults: adjusted,
		RiskAdjustment:  (1 - riskMultiplier) * 100,
		ConfidenceLevel: 100 - totalRisk,
	}
}

// CalculateWeightedResults averages scenario outcomes by probability.
// Returns nil when there are no scenarios or the total probability is zero.
func CalculateWeightedResults(outcomes []models.ScenarioOutcome) *models.WeightedResults {
	if len(outcomes) == 0 {
		return nil
	}

	var totalProbability float64
	for _, o := range outcomes {
		totalProbability += o.Probability
	}
	if totalProbability == 0 {
		return nil
	}

	weighted := &models.WeightedResults{}
	for _, o := range outcomes {
		weight := o.Probability / totalProbability
		weighted.TotalRevenue += o.Results.TotalRevenue * weight
		weighted.TotalCosts += o.Results.TotalCosts * weight
		weighted.NetProfit += o.Results.NetProfit * weight
		weighted.ROI += o.Results.ROI * weight
		weighted.PaybackPeriod += float64(o.Results.PaybackPeriod) * weight
		weighted.IRR += o.Results.IRR * weight
	}

	return weighted
}

// paybackPeriod is the first month whose cumulative cash flow turns
// non-negative. months+1 signals "beyond the projection horizon".
func paybackPeriod(monthly []models.MonthlyCashFlow) int {
	for i, m := range monthly {
		if m.CumulativeCashFlow >= 0 {
			return i + 1
		}
	}
	return len(monthly) + 1
}

// simplifiedIRR derives a monthly rate from the final cumulative value and
// annualizes it. Non-positive final values yield 0 rather than NaN.
func simplifiedIRR(monthly []models.MonthlyCashFlow, investment float64) float64 {
	months := len(monthly)
	if months == 0 || investment <= 0 {
		return 0
	}

	finalValue := monthly[months-1].CumulativeCashFlow + investment
	if finalValue <= 0 {
		return 0
	}

	monthlyIRR := math.Pow(finalValue/investment, 1/float64(months)) - 1
	return monthlyIRR * 12 * 100
}

func buildSummary(base models.ScenarioResults, riskAdjusted models.RiskAdjustedResults, weighted *models.WeightedResults) models.ProjectionSummary {
	payback := riskAdjusted.PaybackPeriod
	if payback == 0 {
		payback = base.PaybackPeriod
	}

	summary := models.ProjectionSummary{
		Recommendation: Recommendation(riskAdjusted.ROI),
		RiskLevel:      RiskLevel(riskAdjusted.RiskAdjustment),
		Profitability:  Profitability(base.ROI),
		KeyMetrics: models.KeyMetrics{
			ExpectedROI:     riskAdjusted.ROI,
			PaybackMonths:   payback,
			ConfidenceLevel: riskAdjusted.ConfidenceLevel,
			NetProfit:       riskAdjusted.NetProfit,
		},
	}

	if weighted != nil {
		summary.ScenarioAnalysis = &models.ScenarioAnalysis{
			WeightedROI:    weighted.ROI,
			WeightedProfit: weighted.NetProfit,
			Recommendation: Recommendation(weighted.ROI),
		}
	}

	return summary
}

// Recommendation maps the risk-adjusted ROI to the investment advice labels
// shown to users.
func Recommendation(adjustedROI float64) string {
	switch {
	case adjustedROI >= 25:
		return "Altamente Recomendado"
	case adjustedROI >= 15:
		return "Recomendado"
	case adjustedROI >= 8:
		return "Aceptable"
	case adjustedROI >= 0:
		return "Marginal"
	default:
		return "No Recomendado"
	}
}

// RiskLevel maps the applied risk reduction percentage to its label.
func RiskLevel(riskAdjustment float64) string {
	switch {
	case riskAdjustment <= 10:
		return "Bajo"
	case riskAdjustment <= 20:
		return "Moderado"
	case riskAdjustment <= 30:
		return "Alto"
	default:
		return "Muy Alto"
	}
}

// Profitability maps the base ROI to its label.
func Profitability(roi float64) string {
	switch {
	case roi >= 30:
		return "Excelente"
	case roi >= 20:
		return "Muy Buena"
	case roi >= 10:
		return "Buena"
	case roi >= 5:
		return "Moderada"
	case roi >= 0:
		return "Baja"
	default:
		return "Negativa"
	}
}

// StandardScenarios returns the optimistic/realistic/pessimistic set used
// when a projection request supplies no scenarios of its own.
func StandardScenarios() []models.Scenario {
	return []models.Scenario{
		{
			ID:   "optimistic",
			Name: "Escenario Optimista",
			Type: models.ScenarioOptimistic,
			Adjustments: models.ScenarioAdjustments{
				PriceAdjustment:     15,
				MortalityAdjustment: -20,
				CostAdjustment:      -10,
				VolumeAdjustment:    10,
			},
			Probability: 25,
		},
		{
			ID:          "realistic",
			Name:        "Escenario Realista",
			Type:        models.ScenarioRealistic,
			Adjustments: models.ScenarioAdjustments{},
			Probability: 50,
		},
		{
			ID:   "pessimistic",
			Name: "Escenario Pesimista",
			Type: models.ScenarioPessimistic,
			Adjustments: models.ScenarioAdjustments{
				PriceAdjustment:     -15,
				MortalityAdjustment: 30,
				CostAdjustment:      15,
				VolumeAdjustment:    -10,
			},
			Probability: 25,
		},
	}
}
