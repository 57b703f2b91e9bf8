package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/engine/growth"
	"github.com/vparedes/maricultor/internal/repository/mongodb"
)

type fakeLotRepo struct {
	lots map[string]models.LotSnapshot
}

func (f *fakeLotRepo) Insert(_ context.Context, lot models.LotSnapshot) error {
	f.lots[lot.ID] = lot
	return nil
}

func (f *fakeLotRepo) FindByID(_ context.Context, id string) (models.LotSnapshot, error) {
	lot, ok := f.lots[id]
	if !ok {
		return models.LotSnapshot{}, mongodb.ErrNotFound
	}
	return lot, nil
}

func (f *fakeLotRepo) FindAll(_ context.Context) ([]models.LotSnapshot, error) {
	out := make([]models.LotSnapshot, 0, len(f.lots))
	for _, lot := range f.lots {
		out = append(out, lot)
	}
	return out, nil
}

type fakeMeasurementRepo struct {
	byLot map[string][]models.MeasurementRecord
	err   error
}

func (f *fakeMeasurementRepo) Insert(_ context.Context, record models.MeasurementRecord) error {
	f.byLot[record.LotID] = append(f.byLot[record.LotID], record)
	return nil
}

func (f *fakeMeasurementRepo) FindByLot(_ context.Context, lotID string) ([]models.MeasurementRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byLot[lotID], nil
}

type fakeReconciliationRepo struct {
	byLot map[string][]models.ReconciliationRow
	err   error
}

func (f *fakeReconciliationRepo) ReplaceForLot(_ context.Context, lotID string, rows []models.ReconciliationRow) error {
	if f.err != nil {
		return f.err
	}
	f.byLot[lotID] = rows
	return nil
}

func (f *fakeReconciliationRepo) FindByLot(_ context.Context, lotID string) ([]models.ReconciliationRow, error) {
	return f.byLot[lotID], nil
}

type monitoringFixture struct {
	service         *Service
	lots            *fakeLotRepo
	measurements    *fakeMeasurementRepo
	reconciliations *fakeReconciliationRepo
}

func newFixture(t *testing.T) *monitoringFixture {
	t.Helper()

	f := &monitoringFixture{
		lots:            &fakeLotRepo{lots: map[string]models.LotSnapshot{}},
		measurements:    &fakeMeasurementRepo{byLot: map[string][]models.MeasurementRecord{}},
		reconciliations: &fakeReconciliationRepo{byLot: map[string][]models.ReconciliationRow{}},
	}
	f.service = NewService(f.lots, f.measurements, f.reconciliations, nil)
	return f
}

func (f *monitoringFixture) seedLot(t *testing.T) models.LotSnapshot {
	t.Helper()

	origin, err := models.NewSeedOriginParameters("Semillero Casma", 3.5, 5, 38.4, 96)
	require.NoError(t, err)

	entry := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	lot, err := models.NewLotSnapshot("lot-1", "sector-1", "Linea A-3", entry, 10000, 12, nil, origin)
	require.NoError(t, err)
	require.NoError(t, f.lots.Insert(context.Background(), lot))
	return lot
}

func TestProjectLot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLot(t)

	points, err := f.service.ProjectLot(ctx, "lot-1", 0)
	require.NoError(t, err)
	assert.Len(t, points, growth.DefaultHorizonMonths+1)

	short, err := f.service.ProjectLot(ctx, "lot-1", 6)
	require.NoError(t, err)
	assert.Equal(t, 6, short[len(short)-1].Month)
}

func TestProjectLotNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ProjectLot(context.Background(), "missing", 0)
	require.ErrorIs(t, err, ErrLotNotFound)
}

func TestReconcileLotPersistsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lot := f.seedLot(t)

	record, err := models.NewMeasurementRecord("m-1", lot.ID, lot.EntryDate.AddDate(0, 2, 0), 8800, nil, "")
	require.NoError(t, err)
	require.NoError(t, f.service.RecordMeasurement(ctx, record))

	rows, err := f.service.ReconcileLot(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rows, f.reconciliations.byLot[lot.ID])
}

func TestReconcileLotPersistFailureStillReturnsRows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lot := f.seedLot(t)
	f.reconciliations.err = errors.New("mongo down")

	record, err := models.NewMeasurementRecord("m-1", lot.ID, lot.EntryDate.AddDate(0, 1, 0), 9000, nil, "")
	require.NoError(t, err)
	require.NoError(t, f.measurements.Insert(ctx, record))

	rows, err := f.service.ReconcileLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReconcileLotMeasurementLoadFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedLot(t)
	f.measurements.err = errors.New("mongo down")

	_, err := f.service.ReconcileLot(ctx, "lot-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrLotNotFound)
}

func TestRecordMeasurementUnknownLot(t *testing.T) {
	f := newFixture(t)

	record, err := models.NewMeasurementRecord("m-1", "missing", time.Now(), 100, nil, "")
	require.NoError(t, err)

	err = f.service.RecordMeasurement(context.Background(), record)
	require.ErrorIs(t, err, ErrLotNotFound)
}

func TestMeasurements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lot := f.seedLot(t)

	for i, qty := range []int{9800, 9500} {
		record, err := models.NewMeasurementRecord(
			string(rune('a'+i)), lot.ID, lot.EntryDate.AddDate(0, i+1, 0), qty, nil, "")
		require.NoError(t, err)
		require.NoError(t, f.service.RecordMeasurement(ctx, record))
	}

	records, err := f.service.Measurements(ctx, lot.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
