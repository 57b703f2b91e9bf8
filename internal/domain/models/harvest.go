package models

import (
	"errors"
	"fmt"
	"time"
)

// HarvestStatus tracks a harvest plan through its state machine.
type HarvestStatus string

const (
	HarvestPlanning   HarvestStatus = "planning"
	HarvestInProgress HarvestStatus = "in_progress"
	HarvestCompleted  HarvestStatus = "completed"
	HarvestCancelled  HarvestStatus = "cancelled"
)

// HarvestPlan schedules and records the harvest of a lot.
type HarvestPlan struct {
	ID                     string        `bson:"_id" json:"id"`
	LotID                  string        `bson:"lot_id" json:"lotId"`
	Status                 HarvestStatus `bson:"status" json:"status"`
	PlannedDate            time.Time     `bson:"planned_date" json:"plannedDate"`
	ActualQuantity         int           `bson:"actual_quantity" json:"actualQuantity"`
	PricePerUnit           float64       `bson:"price_per_unit" json:"pricePerUnit"`
	DistributionsProcessed bool          `bson:"distributions_processed" json:"distributionsProcessed"`
	CreatedAt              time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt              time.Time     `bson:"updated_at" json:"updatedAt"`
}

// NewHarvestPlan validates and initializes a plan in the planning state.
func NewHarvestPlan(id, lotID string, planned time.Time, pricePerUnit float64) (HarvestPlan, error) {
	if lotID == "" {
		return HarvestPlan{}, errors.New("harvest plan requires a lot id")
	}
	if planned.IsZero() {
		return HarvestPlan{}, errors.New("harvest plan requires a planned date")
	}
	if pricePerUnit < 0 {
		return HarvestPlan{}, fmt.Errorf("price per unit must not be negative, got %.2f", pricePerUnit)
	}

	now := time.Now().UTC()
	return HarvestPlan{
		ID:           id,
		LotID:        lotID,
		Status:       HarvestPlanning,
		PlannedDate:  planned,
		PricePerUnit: pricePerUnit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Revenue is the gross income of the recorded harvest.
func (p HarvestPlan) Revenue() float64 {
	return float64(p.ActualQuantity) * p.PricePerUnit
}

// HarvestOutcome is the financial result of a completed harvest, shared by
// every investment distribution of the lot.
type HarvestOutcome struct {
	LotID    string  `bson:"lot_id" json:"lotId"`
	Revenue  float64 `bson:"revenue" json:"revenue"`
	Expenses float64 `bson:"expenses" json:"expenses"`
}

// NetProfit may be negative when expenses exceed revenue.
func (o HarvestOutcome) NetProfit() float64 {
	return o.Revenue - o.Expenses
}

// ExpenseRecord captures an operating expense attributed to a lot.
type ExpenseRecord struct {
	ID       string    `bson:"_id" json:"id"`
	LotID    string    `bson:"lot_id" json:"lotId"`
	Date     time.Time `bson:"date" json:"date"`
	Category string    `bson:"category" json:"category"`
	Amount   float64   `bson:"amount" json:"amount"`
	Notes    string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// NewExpenseRecord validates an expense entry.
func NewExpenseRecord(id, lotID string, date time.Time, category string, amount float64, notes string) (ExpenseRecord, error) {
	if lotID == "" {
		return ExpenseRecord{}, errors.New("expense requires a lot id")
	}
	if amount < 0 {
		return ExpenseRecord{}, fmt.Errorf("expense amount must not be negative, got %.2f", amount)
	}

	return ExpenseRecord{
		ID:       id,
		LotID:    lotID,
		Date:     date,
		Category: category,
		Amount:   amount,
		Notes:    notes,
	}, nil
}
