package mapper

import (
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.UserSubscription) *entity.UserSubscription {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.UserSubscription{
		Id:               s.Id,
		UserId:           s.UserId,
		CustomerId:       s.CustomerId,
		SubscriptionId:   s.SubscriptionId,
		ProductId:        s.ProductId,
		PlanName:         s.PlanName,
		Status:           s.Status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.UserSubscription) *model.UserSubscription {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.UserSubscription{
		Id:               s.Id,
		UserId:           s.UserId,
		CustomerId:       s.CustomerId,
		SubscriptionId:   s.SubscriptionId,
		ProductId:        s.ProductId,
		PlanName:         s.PlanName,
		Status:           s.Status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}
