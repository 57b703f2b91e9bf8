package models

import (
	"errors"
	"fmt"
	"time"
)

// MarketVariables are the market-side assumptions of a financial projection.
// MortalityRate and GrowthRate feed the single-shot yield model, which is a
// separate model from the compound-decay population projection.
type MarketVariables struct {
	PricePerUnit  float64 `json:"pricePerUnit"`
	MortalityRate float64 `json:"mortalityRate"` // percent lost over a full cycle
	GrowthRate    float64 `json:"growthRate"`    // percent of survivors reaching harvest size
	CycleMonths   int     `json:"cycleMonths"`
}

// CostStructure groups the cost-side assumptions of a financial projection.
type CostStructure struct {
	SeedCostPerUnit        float64 `json:"seedCostPerUnit"`
	MaintenanceCostMonthly float64 `json:"maintenanceCostMonthly"`
	HarvestCostPerUnit     float64 `json:"harvestCostPerUnit"`
	FixedCostsMonthly      float64 `json:"fixedCostsMonthly"`
}

// ScenarioAdjustments are percentage deltas applied multiplicatively to the
// base market and cost inputs.
type ScenarioAdjustments struct {
	PriceAdjustment     float64 `json:"priceAdjustment"`
	MortalityAdjustment float64 `json:"mortalityAdjustment"`
	CostAdjustment      float64 `json:"costAdjustment"`
	VolumeAdjustment    float64 `json:"volumeAdjustment"`
}

// ScenarioType names the standard scenario families.
type ScenarioType string

const (
	ScenarioOptimistic  ScenarioType = "optimistic"
	ScenarioRealistic   ScenarioType = "realistic"
	ScenarioPessimistic ScenarioType = "pessimistic"
)

// Scenario is a named adjustment set with an occurrence probability.
type Scenario struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        ScenarioType        `json:"type"`
	Adjustments ScenarioAdjustments `json:"adjustments"`
	Probability float64             `json:"probability"` // percent
}

// MonthlyCashFlow is one simulated month of the base scenario.
type MonthlyCashFlow struct {
	Month              int     `json:"month"`
	Revenue            float64 `json:"revenue"`
	Costs              float64 `json:"costs"`
	NetIncome          float64 `json:"netIncome"`
	CumulativeCashFlow float64 `json:"cumulativeCashFlow"`
	ROI                float64 `json:"roi"`
}

// ScenarioResults aggregates one full simulation run.
type ScenarioResults struct {
	MonthlyData          []MonthlyCashFlow `json:"monthlyData"`
	TotalRevenue         float64           `json:"totalRevenue"`
	TotalCosts           float64           `json:"totalCosts"`
	NetProfit            float64           `json:"netProfit"`
	ROI                  float64           `json:"roi"`
	PaybackPeriod        int               `json:"paybackPeriod"` // months+1 means beyond horizon
	IRR                  float64           `json:"irr"`           // simplified, annualized percent
	Cycles               int               `json:"cycles"`
	AverageMonthlyReturn float64           `json:"averageMonthlyReturn"`
}

// RiskAdjustedResults is the base run scaled by the aggregate risk multiplier.
type RiskAdjustedResults struct {
	ScenarioResults
	RiskAdjustment  float64 `json:"riskAdjustment"`  // percent reduction applied
	ConfidenceLevel float64 `json:"confidenceLevel"` // 100 - total risk
}

// ScenarioOutcome pairs a scenario definition with its simulation results.
type ScenarioOutcome struct {
	Scenario
	Results ScenarioResults `json:"results"`
}

// WeightedResults is the probability-weighted average across scenarios.
type WeightedResults struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalCosts    float64 `json:"totalCosts"`
	NetProfit     float64 `json:"netProfit"`
	ROI           float64 `json:"roi"`
	PaybackPeriod float64 `json:"paybackPeriod"`
	IRR           float64 `json:"irr"`
}

// KeyMetrics are the headline figures surfaced in the projection summary.
type KeyMetrics struct {
	ExpectedROI     float64 `json:"expectedROI"`
	PaybackMonths   int     `json:"paybackMonths"`
	ConfidenceLevel float64 `json:"confidenceLevel"`
	NetProfit       float64 `json:"netProfit"`
}

// ScenarioAnalysis summarizes the weighted scenario outcome.
type ScenarioAnalysis struct {
	WeightedROI    float64 `json:"weightedROI"`
	WeightedProfit float64 `json:"weightedProfit"`
	Recommendation string  `json:"recommendation"`
}

// ProjectionSummary carries the qualitative read of a projection.
type ProjectionSummary struct {
	Recommendation   string            `json:"recommendation"`
	RiskLevel        string            `json:"riskLevel"`
	Profitability    string            `json:"profitability"`
	KeyMetrics       KeyMetrics        `json:"keyMetrics"`
	ScenarioAnalysis *ScenarioAnalysis `json:"scenarioAnalysis,omitempty"`
}

// FinancialProjection is the full output bundle of the scenario engine.
type FinancialProjection struct {
	BaseResults         ScenarioResults     `json:"baseResults"`
	RiskAdjustedResults RiskAdjustedResults `json:"riskAdjustedResults"`
	ScenarioResults     []ScenarioOutcome   `json:"scenarioResults"`
	WeightedResults     *WeightedResults    `json:"weightedResults,omitempty"`
	Summary             ProjectionSummary   `json:"summary"`
	CalculatedAt        time.Time           `json:"calculatedAt"`
}

// ProjectionInput is the validated request for a financial projection run.
type ProjectionInput struct {
	BaseInvestment   float64            `json:"baseInvestment"`
	ProjectionMonths int                `json:"projectionMonths"`
	MarketVariables  MarketVariables    `json:"marketVariables"`
	CostStructure    CostStructure      `json:"costStructure"`
	RiskFactors      map[string]float64 `json:"riskFactors"`
	Scenarios        []Scenario         `json:"scenarios"`
}

// Validate rejects inputs the simulation cannot run on.
func (in ProjectionInput) Validate() error {
	if in.BaseInvestment <= 0 {
		return fmt.Errorf("base investment must be positive, got %.2f", in.BaseInvestment)
	}
	if in.ProjectionMonths <= 0 {
		return fmt.Errorf("projection months must be positive, got %d", in.ProjectionMonths)
	}
	if in.MarketVariables.CycleMonths <= 0 {
		return fmt.Errorf("cycle months must be positive, got %d", in.MarketVariables.CycleMonths)
	}
	if in.MarketVariables.CycleMonths > in.ProjectionMonths {
		return errors.New("projection horizon must cover at least one production cycle")
	}
	if in.CostStructure.SeedCostPerUnit <= 0 {
		return fmt.Errorf("seed cost per unit must be positive, got %.2f", in.CostStructure.SeedCostPerUnit)
	}
	for name, risk := range in.RiskFactors {
		if risk < 0 {
			return fmt.Errorf("risk factor %q must not be negative, got %.2f", name, risk)
		}
	}
	return nil
}

// MonteCarloStats characterizes the ROI distribution of a sampling run.
type MonteCarloStats struct {
	Iterations          int        `json:"iterations"`
	Mean                float64    `json:"mean"`
	Median              float64    `json:"median"`
	StdDev              float64    `json:"stdDev"`
	Percentile5         float64    `json:"percentile5"`
	Percentile95        float64    `json:"percentile95"`
	ConfidenceInterval  [2]float64 `json:"confidenceInterval"`
	ProbabilityPositive float64    `json:"probabilityPositive"`
	ProbabilityAbove10  float64    `json:"probabilityAbove10"`
	ProbabilityAbove20  float64    `json:"probabilityAbove20"`
}
