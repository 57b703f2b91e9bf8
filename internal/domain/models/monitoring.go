package models

import (
	"errors"
	"fmt"
	"time"
)

// MeasurementRecord is a real field observation taken on a lot.
type MeasurementRecord struct {
	ID              string    `bson:"_id" json:"id"`
	LotID           string    `bson:"lot_id" json:"lotId"`
	Date            time.Time `bson:"date" json:"date"`
	CurrentQuantity int       `bson:"current_quantity" json:"currentQuantity"`
	AverageSize     *float64  `bson:"average_size,omitempty" json:"averageSize,omitempty"` // mm, nil when not measured
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// NewMeasurementRecord validates a field observation before it is persisted.
func NewMeasurementRecord(id, lotID string, date time.Time, quantity int, averageSize *float64, notes string) (MeasurementRecord, error) {
	if lotID == "" {
		return MeasurementRecord{}, errors.New("measurement lot id must not be empty")
	}
	if date.IsZero() {
		return MeasurementRecord{}, errors.New("measurement date must be provided")
	}
	if quantity < 0 {
		return MeasurementRecord{}, fmt.Errorf("measured quantity must not be negative, got %d", quantity)
	}
	if averageSize != nil && *averageSize < 0 {
		return MeasurementRecord{}, fmt.Errorf("measured size must not be negative, got %.2f", *averageSize)
	}

	return MeasurementRecord{
		ID:              id,
		LotID:           lotID,
		Date:            date,
		CurrentQuantity: quantity,
		AverageSize:     averageSize,
		Notes:           notes,
	}, nil
}

// ReconciliationStatus classifies how a measurement compares to the theoretical curve.
type ReconciliationStatus string

const (
	ReconciliationSuperior ReconciliationStatus = "superior"
	ReconciliationNormal   ReconciliationStatus = "normal"
	ReconciliationCritical ReconciliationStatus = "critical"
)

// ReconciliationRow compares one measurement against the projection at the same elapsed time.
type ReconciliationRow struct {
	LotID                   string               `bson:"lot_id" json:"lotId"`
	Date                    time.Time            `bson:"date" json:"date"`
	MonthsElapsed           float64              `bson:"months_elapsed" json:"monthsElapsed"`
	RealQuantity            int                  `bson:"real_quantity" json:"realQuantity"`
	TheoreticalQuantity     int                  `bson:"theoretical_quantity" json:"theoreticalQuantity"`
	QuantityDifference      int                  `bson:"quantity_difference" json:"quantityDifference"`
	QuantityDifferencePct   float64              `bson:"quantity_difference_pct" json:"quantityDifferencePercent"`
	RealSize                *float64             `bson:"real_size,omitempty" json:"realSize,omitempty"`
	TheoreticalSize         float64              `bson:"theoretical_size" json:"theoreticalSize"`
	SizeDifference          *float64             `bson:"size_difference,omitempty" json:"sizeDifference,omitempty"`
	SizeDifferencePct       *float64             `bson:"size_difference_pct,omitempty" json:"sizeDifferencePercent,omitempty"`
	TheoreticalMortalityPct float64              `bson:"theoretical_mortality_pct" json:"theoreticalMortalityPercent"`
	Status                  ReconciliationStatus `bson:"status" json:"status"`
}
