package unitofwork

import (
	"context"

	"ai-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatRepository() contract.ChatRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ProjectRepository() contract.ProjectRepository
	SubscriptionRepository() contract.SubscriptionRepository
	TokenUsageRepository() contract.TokenUsageRepository
	FavoriteToolRepository() contract.FavoriteToolRepository
}
