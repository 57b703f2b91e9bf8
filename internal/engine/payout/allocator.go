// Package payout distributes a completed harvest's net profit across the
// investors of the originating lot, proportional to their stake.
package payout

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// Allocator computes distribution records for a harvest. It performs no
// persistence and no notification dispatch; the harvest service owns those
// side effects along with the once-per-completion idempotency rule.
type Allocator struct {
	now   func() time.Time
	newID func() string
}

// NewAllocator returns an allocator using wall-clock time and UUID record ids.
func NewAllocator() *Allocator {
	return &Allocator{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Distribute computes one Distribution per active investment of the harvest's
// lot. The single shared net profit comes from the outcome; a negative net
// profit yields zero-amount distributions, never a charge-back. Always
// returns a non-nil slice.
func (a *Allocator) Distribute(plan models.HarvestPlan, outcome models.HarvestOutcome, investments []models.Investment) []models.Distribution {
	netProfit := outcome.NetProfit()
	now := a.now().UTC()

	distributions := make([]models.Distribution, 0, len(investments))
	for _, inv := range investments {
		if inv.Status != models.InvestmentActive || inv.LotID != plan.LotID {
			continue
		}

		amount := netProfit * inv.Percentage / 100
		if amount < 0 {
			amount = 0
		}

		var roi float64
		if inv.Amount > 0 {
			roi = (amount - inv.Amount) / inv.Amount * 100
		}

		distributions = append(distributions, models.Distribution{
			ID:                   a.newID(),
			HarvestPlanID:        plan.ID,
			LotID:                plan.LotID,
			InvestmentID:         inv.ID,
			InvestorID:           inv.InvestorID,
			DistributionDate:     now,
			HarvestRevenue:       outcome.Revenue,
			HarvestExpenses:      outcome.Expenses,
			NetProfit:            netProfit,
			InvestmentPercentage: inv.Percentage,
			DistributedAmount:    amount,
			OriginalInvestment:   inv.Amount,
			ROI:                  roi,
			Status:               models.DistributionPaid,
			PaymentMethod:        "bank_transfer",
			Notes:                fmt.Sprintf("Distribución automática de retornos - Cosecha %s", plan.ID),
			AutoGenerated:        true,
			CreatedAt:            now,
		})
	}

	return distributions
}
