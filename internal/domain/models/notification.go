package models

import "time"

// NotificationType labels the event that produced a notification.
type NotificationType string

const (
	NotificationDistributionReceived NotificationType = "distribution_received"
	NotificationLotCritical          NotificationType = "lot_critical"
)

// Notification is an in-app message for an investor or maricultor.
type Notification struct {
	ID          string           `bson:"_id" json:"id"`
	RecipientID string           `bson:"recipient_id" json:"recipientId"`
	Type        NotificationType `bson:"type" json:"type"`
	Title       string           `bson:"title" json:"title"`
	Message     string           `bson:"message" json:"message"`
	Data        map[string]any   `bson:"data,omitempty" json:"data,omitempty"`
	Read        bool             `bson:"read" json:"read"`
	CreatedAt   time.Time        `bson:"created_at" json:"createdAt"`
}
