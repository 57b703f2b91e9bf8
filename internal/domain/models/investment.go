package models

import (
	"errors"
	"fmt"
	"time"
)

// InvestmentStatus tracks the lifecycle of an investor's stake in a lot.
type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"
	InvestmentCompleted InvestmentStatus = "completed"
	InvestmentCancelled InvestmentStatus = "cancelled"
)

// DistributedReturn is one historical payout entry on an investment.
type DistributedReturn struct {
	DistributionID string    `bson:"distribution_id" json:"distributionId"`
	Amount         float64   `bson:"amount" json:"amount"`
	Date           time.Time `bson:"date" json:"date"`
}

// Investment is an investor's stake in a specific lot.
type Investment struct {
	ID                   string              `bson:"_id" json:"id"`
	InvestorID           string              `bson:"investor_id" json:"investorId"`
	LotID                string              `bson:"lot_id" json:"lotId"`
	Amount               float64             `bson:"amount" json:"amount"`
	Percentage           float64             `bson:"percentage" json:"percentage"` // share of net profit, 0-100
	Status               InvestmentStatus    `bson:"status" json:"status"`
	ActualReturn         float64             `bson:"actual_return" json:"actualReturn"`
	TotalDistributed     float64             `bson:"total_distributed" json:"totalDistributed"`
	DistributedReturns   []DistributedReturn `bson:"distributed_returns,omitempty" json:"distributedReturns,omitempty"`
	LastDistributionDate *time.Time          `bson:"last_distribution_date,omitempty" json:"lastDistributionDate,omitempty"`
	CreatedAt            time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt            time.Time           `bson:"updated_at" json:"updatedAt"`
}

// NewInvestment validates stake amount and percentage bounds.
func NewInvestment(id, investorID, lotID string, amount, percentage float64) (Investment, error) {
	if investorID == "" || lotID == "" {
		return Investment{}, errors.New("investment requires investor id and lot id")
	}
	if amount <= 0 {
		return Investment{}, fmt.Errorf("investment amount must be positive, got %.2f", amount)
	}
	if percentage < 0 || percentage > 100 {
		return Investment{}, fmt.Errorf("investment percentage must be within [0,100], got %.2f", percentage)
	}

	now := time.Now().UTC()
	return Investment{
		ID:         id,
		InvestorID: investorID,
		LotID:      lotID,
		Amount:     amount,
		Percentage: percentage,
		Status:     InvestmentActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// DistributionStatus tracks payout progress of a distribution record.
type DistributionStatus string

const (
	DistributionPaid    DistributionStatus = "paid"
	DistributionPending DistributionStatus = "pending"
)

// Distribution is one investor's share of a completed harvest's net profit,
// including the audit trail of the figures it was computed from.
type Distribution struct {
	ID                   string             `bson:"_id" json:"id"`
	HarvestPlanID        string             `bson:"harvest_plan_id" json:"harvestPlanId"`
	LotID                string             `bson:"lot_id" json:"lotId"`
	InvestmentID         string             `bson:"investment_id" json:"investmentId"`
	InvestorID           string             `bson:"investor_id" json:"investorId"`
	DistributionDate     time.Time          `bson:"distribution_date" json:"distributionDate"`
	HarvestRevenue       float64            `bson:"harvest_revenue" json:"harvestRevenue"`
	HarvestExpenses      float64            `bson:"harvest_expenses" json:"harvestExpenses"`
	NetProfit            float64            `bson:"net_profit" json:"netProfit"`
	InvestmentPercentage float64            `bson:"investment_percentage" json:"investmentPercentage"`
	DistributedAmount    float64            `bson:"distributed_amount" json:"distributedAmount"` // clamped, never negative
	OriginalInvestment   float64            `bson:"original_investment" json:"originalInvestment"`
	ROI                  float64            `bson:"roi" json:"roi"`
	Status               DistributionStatus `bson:"status" json:"status"`
	PaymentMethod        string             `bson:"payment_method" json:"paymentMethod"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	AutoGenerated        bool               `bson:"auto_generated" json:"autoGenerated"`
	CreatedAt            time.Time          `bson:"created_at" json:"createdAt"`
}
