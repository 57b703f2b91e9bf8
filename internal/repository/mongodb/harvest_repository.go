package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// HarvestPlanRepository defines storage operations for harvest plans.
type HarvestPlanRepository interface {
	Insert(ctx context.Context, plan models.HarvestPlan) error
	FindByID(ctx context.Context, id string) (models.HarvestPlan, error)
	Update(ctx context.Context, plan models.HarvestPlan) error
}

// ExpenseRepository defines storage operations for lot expenses.
type ExpenseRepository interface {
	Insert(ctx context.Context, expense models.ExpenseRecord) error
	TotalByLot(ctx context.Context, lotID string) (float64, error)
}

// MongoHarvestPlanRepository implements HarvestPlanRepository.
type MongoHarvestPlanRepository struct {
	coll *mongo.Collection
}

// NewHarvestPlanRepository builds a harvest plan repository bound to the store.
func NewHarvestPlanRepository(store *Store) *MongoHarvestPlanRepository {
	return &MongoHarvestPlanRepository{coll: store.collection("harvest_plans")}
}

// Insert persists a new harvest plan.
func (r *MongoHarvestPlanRepository) Insert(ctx context.Context, plan models.HarvestPlan) error {
	if _, err := r.coll.InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to insert harvest plan: %w", err)
	}
	return nil
}

// FindByID fetches a single plan, mapping the missing case to ErrNotFound.
func (r *MongoHarvestPlanRepository) FindByID(ctx context.Context, id string) (models.HarvestPlan, error) {
	var plan models.HarvestPlan
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.HarvestPlan{}, ErrNotFound
	}
	if err != nil {
		return models.HarvestPlan{}, fmt.Errorf("failed to find harvest plan %s: %w", id, err)
	}
	return plan, nil
}

// Update replaces the stored plan document.
func (r *MongoHarvestPlanRepository) Update(ctx context.Context, plan models.HarvestPlan) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": plan.ID}, plan)
	if err != nil {
		return fmt.Errorf("failed to update harvest plan %s: %w", plan.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoExpenseRepository implements ExpenseRepository.
type MongoExpenseRepository struct {
	coll *mongo.Collection
}

// NewExpenseRepository builds an expense repository bound to the store.
func NewExpenseRepository(store *Store) *MongoExpenseRepository {
	return &MongoExpenseRepository{coll: store.collection("expenses")}
}

// Insert persists an expense entry.
func (r *MongoExpenseRepository) Insert(ctx context.Context, expense models.ExpenseRecord) error {
	if _, err := r.coll.InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// TotalByLot sums every expense attributed to a lot.
func (r *MongoExpenseRepository) TotalByLot(ctx context.Context, lotID string) (float64, error) {
	cursor, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"lot_id": lotID}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses for lot %s: %w", lotID, err)
	}

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode expense total: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
