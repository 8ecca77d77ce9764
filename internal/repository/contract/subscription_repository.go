package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	// Upsert writes the subscription row keyed on user id, replacing any
	// existing row for that user.
	Upsert(ctx context.Context, sub *entity.UserSubscription) error
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error)
}
