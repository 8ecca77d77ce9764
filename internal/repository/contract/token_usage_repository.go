package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TokenUsageRepository interface {
	Create(ctx context.Context, usage *entity.TokenUsage) error
	CreateBulk(ctx context.Context, usages []*entity.TokenUsage) error
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TokenUsage, error)
}
