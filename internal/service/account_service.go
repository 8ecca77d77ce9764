package service

import (
	"context"
	"errors"
	"fmt"

	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	pkgNats "ai-chat-be/pkg/nats"
	"ai-chat-be/pkg/storage"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// IAccountService removes a user and everything they own. Deletion is hard:
// rows are wiped, not soft-deleted, and stored objects are purged.
type IAccountService interface {
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
}

type accountService struct {
	uowFactory     unitofwork.RepositoryFactory
	store          storage.ObjectStore
	emailService   mailer.IEmailService
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewAccountService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.ObjectStore,
	emailService mailer.IEmailService,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IAccountService {
	return &accountService{
		uowFactory:     uowFactory,
		store:          store,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *accountService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Messages reference chats, so they go first.
	if err := uow.ChatMessageRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	if err := uow.ChatRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("failed to delete chats: %w", err)
	}
	if err := uow.ProjectRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("failed to delete projects: %w", err)
	}
	if err := uow.TokenUsageRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("failed to delete token usage: %w", err)
	}
	if err := uow.FavoriteToolRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("failed to delete favorite tools: %w", err)
	}
	if err := uow.SubscriptionRepository().DeleteByUserId(ctx, userId); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if err := uow.UserRepository().DeleteUnscoped(ctx, userId); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// Post-commit cleanup is auxiliary: the account is already gone, so
	// failures here are logged, not surfaced.
	if s.store != nil {
		if err := s.store.DeletePrefix(ctx, userId.String()+"/"); err != nil {
			s.log.Warn("account_service", "Failed to purge stored objects", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		event := events.NewAccountDeleted(userId, user.Email)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.log.Warn("account_service", "Failed to publish account deletion event", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
	}

	if s.emailService != nil {
		if err := s.emailService.SendAccountDeleted(user.Email, user.FullName); err != nil {
			s.log.Warn("account_service", "Failed to send farewell email", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
	}

	s.log.Info("account_service", "Account deleted", map[string]interface{}{
		"user_id": userId.String(),
	})
	return nil
}
