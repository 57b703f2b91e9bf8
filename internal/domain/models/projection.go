package models

import "time"

// GrowthStage classifies a projected month of a lot's life cycle.
type GrowthStage string

const (
	StageSeeded  GrowthStage = "seeded"
	StageGrowing GrowthStage = "growing"
	StageReady   GrowthStage = "ready"
	StageMature  GrowthStage = "mature"
)

// ProjectionPoint is a single month of a growth/mortality projection.
type ProjectionPoint struct {
	Month                    int         `bson:"month" json:"month"`
	Date                     time.Time   `bson:"date" json:"date"`
	ExpectedSize             float64     `bson:"expected_size" json:"expectedSize"` // mm
	SurvivingQuantity        int         `bson:"surviving_quantity" json:"survivingQuantity"`
	CumulativeMortalityPct   float64     `bson:"cumulative_mortality_pct" json:"cumulativeMortalityPercent"`
	MonthlyMortalityPct      float64     `bson:"monthly_mortality_pct" json:"monthlyMortalityPercent"`
	Status                   GrowthStage `bson:"status" json:"status"`
	IsHarvestMonth           bool        `bson:"is_harvest_month" json:"isHarvestMonth"`
	SurvivingBundlesEstimate int         `bson:"surviving_bundles" json:"survivingBundlesEstimate"`
}
