package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/billing"
	"ai-chat-be/pkg/events"
	pkgNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// subscriptionCacheTTL bounds how stale a cached status may be. Within the
// window a check never reaches the payment processor.
const subscriptionCacheTTL = 5 * time.Minute

type ISubscriptionService interface {
	GetStatus(ctx context.Context, userId uuid.UUID, email string) (*dto.SubscriptionStatusResponse, error)
}

type subscriptionService struct {
	uowFactory     unitofwork.RepositoryFactory
	billingClient  billing.Client
	redisClient    *redis.Client
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	billingClient billing.Client,
	redisClient *redis.Client,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory:     uowFactory,
		billingClient:  billingClient,
		redisClient:    redisClient,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func subscriptionCacheKey(userId uuid.UUID) string {
	return fmt.Sprintf("subscription:%s", userId)
}

func (s *subscriptionService) GetStatus(ctx context.Context, userId uuid.UUID, email string) (*dto.SubscriptionStatusResponse, error) {
	if cached := s.fromCache(ctx, userId); cached != nil {
		return cached, nil
	}

	if s.billingClient == nil {
		return nil, errors.New("billing client is not configured")
	}

	sub, err := s.billingClient.ActiveSubscription(ctx, email)
	if err != nil {
		s.log.Error("subscription_service", "Billing lookup failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to check subscription status: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	response := &dto.SubscriptionStatusResponse{}
	if sub == nil {
		// No active subscription: drop any stale local row.
		if err := uow.SubscriptionRepository().DeleteByUserId(ctx, userId); err != nil {
			return nil, err
		}
	} else {
		wasSubscribed, err := s.hasLocalRow(ctx, uow, userId)
		if err != nil {
			return nil, err
		}

		if err := uow.SubscriptionRepository().Upsert(ctx, &entity.UserSubscription{
			Id:               uuid.New(),
			UserId:           userId,
			CustomerId:       sub.CustomerID,
			SubscriptionId:   sub.SubscriptionID,
			ProductId:        sub.ProductID,
			PlanName:         sub.PlanName,
			Status:           sub.Status,
			CurrentPeriodEnd: sub.CurrentPeriodEnd,
		}); err != nil {
			return nil, err
		}

		if !wasSubscribed {
			s.publishActivated(ctx, userId, sub)
		}

		end := sub.CurrentPeriodEnd
		response = &dto.SubscriptionStatusResponse{
			Subscribed:      true,
			ProductId:       sub.ProductID,
			PlanName:        sub.PlanName,
			SubscriptionEnd: &end,
		}
	}

	s.toCache(ctx, userId, response)
	return response, nil
}

func (s *subscriptionService) hasLocalRow(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (bool, error) {
	existing, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

func (s *subscriptionService) fromCache(ctx context.Context, userId uuid.UUID) *dto.SubscriptionStatusResponse {
	if s.redisClient == nil {
		return nil
	}
	raw, err := s.redisClient.Get(ctx, subscriptionCacheKey(userId)).Result()
	if err != nil {
		return nil
	}
	var cached dto.SubscriptionStatusResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil
	}
	return &cached
}

func (s *subscriptionService) toCache(ctx context.Context, userId uuid.UUID, status *dto.SubscriptionStatusResponse) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, subscriptionCacheKey(userId), raw, subscriptionCacheTTL).Err(); err != nil {
		s.log.Warn("subscription_service", "Failed to cache subscription status", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *subscriptionService) publishActivated(ctx context.Context, userId uuid.UUID, sub *billing.Subscription) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewSubscriptionActivated(userId, sub.ProductID, sub.PlanName)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("subscription_service", "Failed to publish subscription event", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}
