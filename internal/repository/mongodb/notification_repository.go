package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vparedes/maricultor/internal/domain/models"
)

// NotificationRepository defines storage operations for in-app notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, notification models.Notification) error
}

// MongoNotificationRepository implements NotificationRepository.
type MongoNotificationRepository struct {
	coll *mongo.Collection
}

// NewNotificationRepository builds a notification repository bound to the store.
func NewNotificationRepository(store *Store) *MongoNotificationRepository {
	return &MongoNotificationRepository{coll: store.collection("notifications")}
}

// Insert persists a notification.
func (r *MongoNotificationRepository) Insert(ctx context.Context, notification models.Notification) error {
	if _, err := r.coll.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
