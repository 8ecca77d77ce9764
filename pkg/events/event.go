package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "MESSAGE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Domain event codes used across the service.
const (
	TypeMessageCreated        = "MESSAGE_CREATED"
	TypeSubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	TypeAccountDeleted        = "ACCOUNT_DELETED"
)

// NewMessageCreated builds the event pushed to connected clients when an
// assistant or webhook message lands in a chat.
func NewMessageCreated(userId, chatId, messageId uuid.UUID, role string) Event {
	return BaseEvent{
		Type: TypeMessageCreated,
		Data: map[string]interface{}{
			"user_id":    userId,
			"chat_id":    chatId,
			"message_id": messageId,
			"role":       role,
		},
		OccurredAt: time.Now(),
	}
}

// NewSubscriptionActivated fires when a subscription check observes the
// inactive -> active transition.
func NewSubscriptionActivated(userId uuid.UUID, productId, planName string) Event {
	return BaseEvent{
		Type: TypeSubscriptionActivated,
		Data: map[string]interface{}{
			"user_id":    userId,
			"product_id": productId,
			"plan_name":  planName,
		},
		OccurredAt: time.Now(),
	}
}

// NewAccountDeleted fires after an account purge commits.
func NewAccountDeleted(userId uuid.UUID, email string) Event {
	return BaseEvent{
		Type: TypeAccountDeleted,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}
