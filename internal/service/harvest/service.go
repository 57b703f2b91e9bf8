// Package harvest owns the harvest-plan state machine and the automatic
// distribution of returns to investors on completion.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/engine/payout"
	"github.com/vparedes/maricultor/internal/repository/mongodb"
	"github.com/vparedes/maricultor/pkg/clients/webhook"
)

// ErrPlanNotFound indicates the requested harvest plan does not exist.
var ErrPlanNotFound = errors.New("harvest plan not found")

// ErrInvalidTransition indicates the requested status change is not allowed.
var ErrInvalidTransition = errors.New("invalid harvest status transition")

var allowedTransitions = map[models.HarvestStatus][]models.HarvestStatus{
	models.HarvestPlanning:   {models.HarvestInProgress, models.HarvestCancelled},
	models.HarvestInProgress: {models.HarvestCompleted, models.HarvestCancelled},
}

// Service manages harvest plans. Distribution runs exactly once per plan, on
// the transition into the completed state; completeMu serializes concurrent
// completion attempts and the persisted DistributionsProcessed flag guards
// against replays across restarts.
type Service struct {
	plans         mongodb.HarvestPlanRepository
	investments   mongodb.InvestmentRepository
	distributions mongodb.DistributionRepository
	expenses      mongodb.ExpenseRepository
	notifications mongodb.NotificationRepository
	allocator     *payout.Allocator
	notifier      webhook.Notifier
	logger        *zap.Logger
	now           func() time.Time

	completeMu sync.Mutex
}

// NewService wires a harvest service instance. notifier may be nil when no
// webhook endpoint is configured.
func NewService(
	plans mongodb.HarvestPlanRepository,
	investments mongodb.InvestmentRepository,
	distributions mongodb.DistributionRepository,
	expenses mongodb.ExpenseRepository,
	notifications mongodb.NotificationRepository,
	allocator *payout.Allocator,
	notifier webhook.Notifier,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		plans:         plans,
		investments:   investments,
		distributions: distributions,
		expenses:      expenses,
		notifications: notifications,
		allocator:     allocator,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

// CreatePlan persists a new plan in the planning state.
func (s *Service) CreatePlan(ctx context.Context, plan models.HarvestPlan) error {
	if err := s.plans.Insert(ctx, plan); err != nil {
		return fmt.Errorf("save harvest plan: %w", err)
	}
	s.logger.Info("harvest plan created", zap.String("plan_id", plan.ID), zap.String("lot_id", plan.LotID))
	return nil
}

// Plan fetches a single harvest plan.
func (s *Service) Plan(ctx context.Context, planID string) (models.HarvestPlan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.HarvestPlan{}, ErrPlanNotFound
	}
	if err != nil {
		return models.HarvestPlan{}, fmt.Errorf("load harvest plan: %w", err)
	}
	return plan, nil
}

// Distributions returns the payout records of a completed harvest.
func (s *Service) Distributions(ctx context.Context, planID string) ([]models.Distribution, error) {
	if _, err := s.Plan(ctx, planID); err != nil {
		return nil, err
	}
	return s.distributions.FindByHarvestPlan(ctx, planID)
}

// UpdateStatus moves the plan through its state machine. actualQuantity is
// recorded when transitioning into completed. A distribution failure is
// logged but does not fail the completion: the harvest result stands.
func (s *Service) UpdateStatus(ctx context.Context, planID string, newStatus models.HarvestStatus, actualQuantity int) (models.HarvestPlan, error) {
	s.completeMu.Lock()
	defer s.completeMu.Unlock()

	plan, err := s.Plan(ctx, planID)
	if err != nil {
		return models.HarvestPlan{}, err
	}

	if !transitionAllowed(plan.Status, newStatus) {
		return models.HarvestPlan{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, plan.Status, newStatus)
	}

	completing := newStatus == models.HarvestCompleted && plan.Status != models.HarvestCompleted

	plan.Status = newStatus
	if completing && actualQuantity > 0 {
		plan.ActualQuantity = actualQuantity
	}
	plan.UpdatedAt = s.now().UTC()

	if err := s.plans.Update(ctx, plan); err != nil {
		return models.HarvestPlan{}, fmt.Errorf("update harvest plan: %w", err)
	}

	if completing && !plan.DistributionsProcessed {
		if err := s.distributeReturns(ctx, &plan); err != nil {
			s.logger.Error("failed distributing returns to investors",
				zap.String("plan_id", plan.ID),
				zap.Error(err))
		}
	}

	return plan, nil
}

// distributeReturns computes the harvest outcome, runs the allocator and
// applies the caller-side effects: persist distributions, complete the
// investments, notify the investors.
func (s *Service) distributeReturns(ctx context.Context, plan *models.HarvestPlan) error {
	investments, err := s.investments.FindActiveByLot(ctx, plan.LotID)
	if err != nil {
		return fmt.Errorf("load active investments: %w", err)
	}
	if len(investments) == 0 {
		s.logger.Info("no active investments for lot, skipping distribution", zap.String("lot_id", plan.LotID))
		return s.markProcessed(ctx, plan)
	}

	totalExpenses, err := s.expenses.TotalByLot(ctx, plan.LotID)
	if err != nil {
		return fmt.Errorf("sum lot expenses: %w", err)
	}

	outcome := models.HarvestOutcome{
		LotID:    plan.LotID,
		Revenue:  plan.Revenue(),
		Expenses: totalExpenses,
	}

	distributions := s.allocator.Distribute(*plan, outcome, investments)

	if err := s.distributions.InsertMany(ctx, distributions); err != nil {
		return fmt.Errorf("save distributions: %w", err)
	}

	byInvestment := make(map[string]models.Distribution, len(distributions))
	for _, d := range distributions {
		byInvestment[d.InvestmentID] = d
	}

	for _, inv := range investments {
		dist, ok := byInvestment[inv.ID]
		if !ok {
			continue
		}

		inv.Status = models.InvestmentCompleted
		inv.ActualReturn = dist.DistributedAmount
		inv.TotalDistributed += dist.DistributedAmount
		inv.DistributedReturns = append(inv.DistributedReturns, models.DistributedReturn{
			DistributionID: dist.ID,
			Amount:         dist.DistributedAmount,
			Date:           dist.DistributionDate,
		})
		distDate := dist.DistributionDate
		inv.LastDistributionDate = &distDate
		inv.UpdatedAt = s.now().UTC()

		if err := s.investments.Update(ctx, inv); err != nil {
			s.logger.Error("failed completing investment after distribution",
				zap.String("investment_id", inv.ID),
				zap.Error(err))
			continue
		}

		s.notifyInvestor(ctx, dist)
	}

	s.logger.Info("returns distributed",
		zap.String("plan_id", plan.ID),
		zap.String("lot_id", plan.LotID),
		zap.Int("distributions", len(distributions)),
		zap.Float64("net_profit", outcome.NetProfit()))

	return s.markProcessed(ctx, plan)
}

func (s *Service) markProcessed(ctx context.Context, plan *models.HarvestPlan) error {
	plan.DistributionsProcessed = true
	plan.UpdatedAt = s.now().UTC()
	if err := s.plans.Update(ctx, *plan); err != nil {
		return fmt.Errorf("mark distributions processed: %w", err)
	}
	return nil
}

// notifyInvestor records the in-app notification and pushes the webhook
// event. Neither failure is fatal to the distribution.
func (s *Service) notifyInvestor(ctx context.Context, dist models.Distribution) {
	notification := models.Notification{
		ID:          uuid.NewString(),
		RecipientID: dist.InvestorID,
		Type:        models.NotificationDistributionReceived,
		Title:       "Retorno de inversión distribuido",
		Message:     fmt.Sprintf("Recibiste S/ %.2f por tu participación del %.1f%% en el lote %s.", dist.DistributedAmount, dist.InvestmentPercentage, dist.LotID),
		Data: map[string]any{
			"distributionId": dist.ID,
			"harvestPlanId":  dist.HarvestPlanID,
			"amount":         dist.DistributedAmount,
			"roi":            dist.ROI,
		},
		CreatedAt: s.now().UTC(),
	}

	if err := s.notifications.Insert(ctx, notification); err != nil {
		s.logger.Warn("failed saving distribution notification", zap.String("investor_id", dist.InvestorID), zap.Error(err))
	}

	if s.notifier == nil {
		return
	}

	event := webhook.Event{
		Type:        string(models.NotificationDistributionReceived),
		RecipientID: dist.InvestorID,
		Title:       notification.Title,
		Message:     notification.Message,
		Data:        notification.Data,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.notifier.SendEvent(ctx, event); err != nil {
		s.logger.Warn("failed pushing distribution webhook", zap.String("investor_id", dist.InvestorID), zap.Error(err))
	}
}

func transitionAllowed(from, to models.HarvestStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
