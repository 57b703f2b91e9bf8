package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// LotRepository defines storage operations for seeded lots.
type LotRepository interface {
	Insert(ctx context.Context, lot models.LotSnapshot) error
	FindByID(ctx context.Context, id string) (models.LotSnapshot, error)
	FindAll(ctx context.Context) ([]models.LotSnapshot, error)
}

// MongoLotRepository implements LotRepository on the lots collection.
type MongoLotRepository struct {
	coll *mongo.Collection
}

// NewLotRepository builds a lot repository bound to the store.
func NewLotRepository(store *Store) *MongoLotRepository {
	return &MongoLotRepository{coll: store.collection("lots")}
}

// Insert persists a new lot snapshot.
func (r *MongoLotRepository) Insert(ctx context.Context, lot models.LotSnapshot) error {
	if _, err := r.coll.InsertOne(ctx, lot); err != nil {
		return fmt.Errorf("failed to insert lot: %w", err)
	}
	return nil
}

// FindByID fetches a single lot, mapping the missing case to ErrNotFound.
func (r *MongoLotRepository) FindByID(ctx context.Context, id string) (models.LotSnapshot, error) {
	var lot models.LotSnapshot
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LotSnapshot{}, ErrNotFound
	}
	if err != nil {
		return models.LotSnapshot{}, fmt.Errorf("failed to find lot %s: %w", id, err)
	}
	return lot, nil
}

// FindAll returns every lot, newest entry date first.
func (r *MongoLotRepository) FindAll(ctx context.Context) ([]models.LotSnapshot, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, findSortedBy("entry_date", -1))
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	var lots []models.LotSnapshot
	if err := cursor.All(ctx, &lots); err != nil {
		return nil, fmt.Errorf("failed to decode lots: %w", err)
	}
	return lots, nil
}
