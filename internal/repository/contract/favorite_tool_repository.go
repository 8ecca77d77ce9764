package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FavoriteToolRepository interface {
	Create(ctx context.Context, favorite *entity.FavoriteTool) error
	DeleteByUserIdAndTool(ctx context.Context, userId uuid.UUID, toolName string) error
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FavoriteTool, error)
}
