package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) ToEntity(u *model.TokenUsage) *entity.TokenUsage {
	if u == nil {
		return nil
	}
	return &entity.TokenUsage{
		Id:               u.Id,
		UserId:           u.UserId,
		ChatId:           u.ChatId,
		MessageId:        u.MessageId,
		Model:            u.Model,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
		CostUSD:          u.CostUSD,
		CreatedAt:        u.CreatedAt,
	}
}

func (m *UsageMapper) ToModel(u *entity.TokenUsage) *model.TokenUsage {
	if u == nil {
		return nil
	}
	return &model.TokenUsage{
		Id:               u.Id,
		UserId:           u.UserId,
		ChatId:           u.ChatId,
		MessageId:        u.MessageId,
		Model:            u.Model,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
		CostUSD:          u.CostUSD,
		CreatedAt:        u.CreatedAt,
	}
}
