// Package monitoring bridges stored lots and measurements with the growth
// projection engine.
package monitoring

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/engine/growth"
	"github.com/vparedes/maricultor/internal/repository/mongodb"
)

// ErrLotNotFound indicates the requested lot does not exist.
var ErrLotNotFound = errors.New("lot not found")

// Service loads domain records, runs the pure projection/reconciliation
// calculations and persists their outputs. The engine itself never touches
// storage.
type Service struct {
	lots            mongodb.LotRepository
	measurements    mongodb.MeasurementRepository
	reconciliations mongodb.ReconciliationRepository
	logger          *zap.Logger
}

// NewService wires a monitoring service instance.
func NewService(lots mongodb.LotRepository, measurements mongodb.MeasurementRepository, reconciliations mongodb.ReconciliationRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		lots:            lots,
		measurements:    measurements,
		reconciliations: reconciliations,
		logger:          logger,
	}
}

// ProjectLot computes the month-by-month projection for a stored lot. A
// positive horizonMonths overrides the lot's own harvest horizon.
func (s *Service) ProjectLot(ctx context.Context, lotID string, horizonMonths int) ([]models.ProjectionPoint, error) {
	lot, err := s.loadLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	return growth.Project(lot, horizonMonths), nil
}

// ReconcileLot compares every stored measurement of the lot against its
// theoretical curve, persists the fresh snapshot and returns it.
func (s *Service) ReconcileLot(ctx context.Context, lotID string) ([]models.ReconciliationRow, error) {
	lot, err := s.loadLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	measurements, err := s.measurements.FindByLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("load measurements: %w", err)
	}

	rows := growth.Reconcile(lot, measurements)

	if err := s.reconciliations.ReplaceForLot(ctx, lotID, rows); err != nil {
		// The computed rows are still valid for the caller.
		s.logger.Error("failed persisting reconciliation snapshot", zap.String("lot_id", lotID), zap.Error(err))
	}

	return rows, nil
}

// RecordMeasurement persists a new field observation for a lot.
func (s *Service) RecordMeasurement(ctx context.Context, record models.MeasurementRecord) error {
	if _, err := s.loadLot(ctx, record.LotID); err != nil {
		return err
	}
	if err := s.measurements.Insert(ctx, record); err != nil {
		return fmt.Errorf("save measurement: %w", err)
	}

	s.logger.Info("measurement recorded",
		zap.String("lot_id", record.LotID),
		zap.Int("quantity", record.CurrentQuantity))
	return nil
}

// Measurements returns the stored observations of a lot in order.
func (s *Service) Measurements(ctx context.Context, lotID string) ([]models.MeasurementRecord, error) {
	if _, err := s.loadLot(ctx, lotID); err != nil {
		return nil, err
	}
	return s.measurements.FindByLot(ctx, lotID)
}

func (s *Service) loadLot(ctx context.Context, lotID string) (models.LotSnapshot, error) {
	lot, err := s.lots.FindByID(ctx, lotID)
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.LotSnapshot{}, ErrLotNotFound
	}
	if err != nil {
		return models.LotSnapshot{}, fmt.Errorf("load lot: %w", err)
	}
	return lot, nil
}
