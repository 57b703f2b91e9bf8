package models

import (
	"errors"
	"fmt"
	"time"
)

// UnitsPerBundle is the number of scallops tied into a single "manojo".
const UnitsPerBundle = 96

// DefaultInitialSizeMM is assumed when a lot has no recorded seed size.
const DefaultInitialSizeMM = 12.0

// SeedOriginParameters holds per-supplier growth, mortality and price assumptions.
type SeedOriginParameters struct {
	OriginName           string  `bson:"origin_name" json:"originName"`
	MonthlyGrowthRate    float64 `bson:"monthly_growth_rate" json:"monthlyGrowthRate"`       // mm per month
	MonthlyMortalityRate float64 `bson:"monthly_mortality_rate" json:"monthlyMortalityRate"` // percent per month
	PricePerUnit         float64 `bson:"price_per_unit" json:"pricePerUnit"`
	PricePerBundle       float64 `bson:"price_per_bundle" json:"pricePerBundle"`
	BundleSize           int     `bson:"bundle_size" json:"bundleSize"`
}

// NewSeedOriginParameters validates rate and price bounds before returning a usable value.
// Mortality outside [0,100] is rejected here so the projection engine never sees it.
func NewSeedOriginParameters(name string, growthRate, mortalityRate, pricePerBundle float64, bundleSize int) (SeedOriginParameters, error) {
	if growthRate < 0 {
		return SeedOriginParameters{}, fmt.Errorf("monthly growth rate must not be negative, got %.2f", growthRate)
	}
	if mortalityRate < 0 || mortalityRate > 100 {
		return SeedOriginParameters{}, fmt.Errorf("monthly mortality rate must be within [0,100], got %.2f", mortalityRate)
	}
	if pricePerBundle < 0 {
		return SeedOriginParameters{}, fmt.Errorf("price per bundle must not be negative, got %.2f", pricePerBundle)
	}
	if bundleSize <= 0 {
		bundleSize = UnitsPerBundle
	}

	return SeedOriginParameters{
		OriginName:           name,
		MonthlyGrowthRate:    growthRate,
		MonthlyMortalityRate: mortalityRate,
		PricePerUnit:         pricePerBundle / float64(bundleSize),
		PricePerBundle:       pricePerBundle,
		BundleSize:           bundleSize,
	}, nil
}

// LotSnapshot is the immutable view of a seeded lot that the projection engine consumes.
type LotSnapshot struct {
	ID                   string               `bson:"_id" json:"id"`
	SectorID             string               `bson:"sector_id" json:"sectorId"`
	LineName             string               `bson:"line_name" json:"lineName"`
	EntryDate            time.Time            `bson:"entry_date" json:"entryDate"`
	InitialQuantity      int                  `bson:"initial_quantity" json:"initialQuantity"`
	AverageSize          float64              `bson:"average_size" json:"averageSize"` // mm, 0 means unknown
	ProjectedHarvestDate *time.Time           `bson:"projected_harvest_date,omitempty" json:"projectedHarvestDate,omitempty"`
	Origin               SeedOriginParameters `bson:"origin" json:"origin"`
	CreatedAt            time.Time            `bson:"created_at" json:"createdAt"`
}

// NewLotSnapshot builds a validated lot record.
func NewLotSnapshot(id, sectorID, lineName string, entryDate time.Time, initialQuantity int, averageSize float64, projectedHarvest *time.Time, origin SeedOriginParameters) (LotSnapshot, error) {
	if id == "" {
		return LotSnapshot{}, errors.New("lot id must not be empty")
	}
	if entryDate.IsZero() {
		return LotSnapshot{}, errors.New("entry date must be provided")
	}
	if initialQuantity < 0 {
		return LotSnapshot{}, fmt.Errorf("initial quantity must not be negative, got %d", initialQuantity)
	}
	if averageSize < 0 {
		return LotSnapshot{}, fmt.Errorf("average size must not be negative, got %.2f", averageSize)
	}
	if projectedHarvest != nil && projectedHarvest.Before(entryDate) {
		return LotSnapshot{}, errors.New("projected harvest date must not precede entry date")
	}

	return LotSnapshot{
		ID:                   id,
		SectorID:             sectorID,
		LineName:             lineName,
		EntryDate:            entryDate,
		InitialQuantity:      initialQuantity,
		AverageSize:          averageSize,
		ProjectedHarvestDate: projectedHarvest,
		Origin:               origin,
		CreatedAt:            time.Now().UTC(),
	}, nil
}

// InitialSize returns the recorded seed size, falling back to the standard 12mm default.
func (l LotSnapshot) InitialSize() float64 {
	if l.AverageSize > 0 {
		return l.AverageSize
	}
	return DefaultInitialSizeMM
}
