package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// InvestmentRepository defines storage operations for investor stakes.
type InvestmentRepository interface {
	Insert(ctx context.Context, investment models.Investment) error
	FindByLot(ctx context.Context, lotID string) ([]models.Investment, error)
	FindActiveByLot(ctx context.Context, lotID string) ([]models.Investment, error)
	Update(ctx context.Context, investment models.Investment) error
}

// DistributionRepository defines storage operations for payout records.
type DistributionRepository interface {
	InsertMany(ctx context.Context, distributions []models.Distribution) error
	FindByHarvestPlan(ctx context.Context, planID string) ([]models.Distribution, error)
	FindSince(ctx context.Context, since time.Time) ([]models.Distribution, error)
}

// MongoInvestmentRepository implements InvestmentRepository.
type MongoInvestmentRepository struct {
	coll *mongo.Collection
}

// NewInvestmentRepository builds an investment repository bound to the store.
func NewInvestmentRepository(store *Store) *MongoInvestmentRepository {
	return &MongoInvestmentRepository{coll: store.collection("investments")}
}

// Insert persists a new investment.
func (r *MongoInvestmentRepository) Insert(ctx context.Context, investment models.Investment) error {
	if _, err := r.coll.InsertOne(ctx, investment); err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}
	return nil
}

// FindByLot returns every investment on a lot.
func (r *MongoInvestmentRepository) FindByLot(ctx context.Context, lotID string) ([]models.Investment, error) {
	return r.find(ctx, bson.M{"lot_id": lotID})
}

// FindActiveByLot returns only the active investments of a lot, the set
// eligible for distribution.
func (r *MongoInvestmentRepository) FindActiveByLot(ctx context.Context, lotID string) ([]models.Investment, error) {
	return r.find(ctx, bson.M{"lot_id": lotID, "status": models.InvestmentActive})
}

// Update replaces the stored investment document.
func (r *MongoInvestmentRepository) Update(ctx context.Context, investment models.Investment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": investment.ID}, investment)
	if err != nil {
		return fmt.Errorf("failed to update investment %s: %w", investment.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoInvestmentRepository) find(ctx context.Context, filter bson.M) ([]models.Investment, error) {
	cursor, err := r.coll.Find(ctx, filter, findSortedBy("created_at", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	var investments []models.Investment
	if err := cursor.All(ctx, &investments); err != nil {
		return nil, fmt.Errorf("failed to decode investments: %w", err)
	}
	return investments, nil
}

// MongoDistributionRepository implements DistributionRepository.
type MongoDistributionRepository struct {
	coll *mongo.Collection
}

// NewDistributionRepository builds a distribution repository bound to the store.
func NewDistributionRepository(store *Store) *MongoDistributionRepository {
	return &MongoDistributionRepository{coll: store.collection("distributions")}
}

// InsertMany persists a batch of distribution records.
func (r *MongoDistributionRepository) InsertMany(ctx context.Context, distributions []models.Distribution) error {
	if len(distributions) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(distributions))
	for _, d := range distributions {
		docs = append(docs, d)
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert distributions: %w", err)
	}
	return nil
}

// FindByHarvestPlan returns the distributions of one harvest.
func (r *MongoDistributionRepository) FindByHarvestPlan(ctx context.Context, planID string) ([]models.Distribution, error) {
	return r.find(ctx, bson.M{"harvest_plan_id": planID})
}

// FindSince returns distributions created at or after the given instant,
// used by the periodic report export.
func (r *MongoDistributionRepository) FindSince(ctx context.Context, since time.Time) ([]models.Distribution, error) {
	return r.find(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

func (r *MongoDistributionRepository) find(ctx context.Context, filter bson.M) ([]models.Distribution, error) {
	cursor, err := r.coll.Find(ctx, filter, findSortedBy("created_at", 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}

	var distributions []models.Distribution
	if err := cursor.All(ctx, &distributions); err != nil {
		return nil, fmt.Errorf("failed to decode distributions: %w", err)
	}
	return distributions, nil
}
