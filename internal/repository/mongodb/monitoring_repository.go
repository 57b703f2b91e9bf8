package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// MeasurementRepository defines storage operations for field observations.
type MeasurementRepository interface {
	Insert(ctx context.Context, record models.MeasurementRecord) error
	FindByLot(ctx context.Context, lotID string) ([]models.MeasurementRecord, error)
}

// ReconciliationRepository persists reconciliation snapshots per lot.
type ReconciliationRepository interface {
	ReplaceForLot(ctx context.Context, lotID string, rows []models.ReconciliationRow) error
	FindByLot(ctx context.Context, lotID string) ([]models.ReconciliationRow, error)
}

// MongoMeasurementRepository implements MeasurementRepository.
type MongoMeasurementRepository struct {
	coll *mongo.Collection
}

// NewMeasurementRepository builds a measurement repository bound to the store.
func NewMeasurementRepository(store *Store) *MongoMeasurementRepository {
	return &MongoMeasurementRepository{coll: store.collection("measurements")}
}

// Insert persists a field observation.
func (r *MongoMeasurementRepository) Insert(ctx context.Context, record models.MeasurementRecord) error {
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert measurement: %w", err)
	}
	return nil
}

// FindByLot returns a lot's measurements in chronological order.
func (r *MongoMeasurementRepository) FindByLot(ctx context.Context, lotID string) ([]models.MeasurementRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"lot_id": lotID}, findSortedBy("date", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements for lot %s: %w", lotID, err)
	}

	var records []models.MeasurementRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode measurements: %w", err)
	}
	return records, nil
}

// MongoReconciliationRepository implements ReconciliationRepository. Each
// sweep replaces the previous snapshot of the lot wholesale, so the stored
// rows always reflect the latest parameters.
type MongoReconciliationRepository struct {
	coll *mongo.Collection
}

// NewReconciliationRepository builds a reconciliation repository bound to the store.
func NewReconciliationRepository(store *Store) *MongoReconciliationRepository {
	return &MongoReconciliationRepository{coll: store.collection("reconciliations")}
}

// ReplaceForLot swaps the stored snapshot of a lot for the provided rows.
func (r *MongoReconciliationRepository) ReplaceForLot(ctx context.Context, lotID string, rows []models.ReconciliationRow) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"lot_id": lotID}); err != nil {
		return fmt.Errorf("failed to clear reconciliation snapshot for lot %s: %w", lotID, err)
	}

	if len(rows) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert reconciliation snapshot for lot %s: %w", lotID, err)
	}
	return nil
}

// FindByLot returns the stored snapshot in chronological order.
func (r *MongoReconciliationRepository) FindByLot(ctx context.Context, lotID string) ([]models.ReconciliationRow, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"lot_id": lotID}, findSortedBy("date", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation rows for lot %s: %w", lotID, err)
	}

	var rows []models.ReconciliationRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode reconciliation rows: %w", err)
	}
	return rows, nil
}
