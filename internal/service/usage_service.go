package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var (
	ErrEmptyUsageBatch     = errors.New("usage payload contains no entries")
	ErrInvalidUsagePayload = errors.New("invalid usage payload")
)

// IUsageService records token consumption. The log is append-only: every
// call inserts fresh rows, repeated submissions produce distinct ids.
type IUsageService interface {
	LogUsage(ctx context.Context, userId uuid.UUID, raw json.RawMessage) (*dto.LogUsageResponse, error)
}

type usageService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewUsageService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IUsageService {
	return &usageService{
		uowFactory: uowFactory,
		log:        log,
	}
}

// LogUsage accepts either a single usage object or an array of them.
func (s *usageService) LogUsage(ctx context.Context, userId uuid.UUID, raw json.RawMessage) (*dto.LogUsageResponse, error) {
	requests, err := decodeUsagePayload(raw)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrEmptyUsageBatch
	}

	rows := make([]*entity.TokenUsage, 0, len(requests))
	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		if err := serverutils.ValidateRequest(req); err != nil {
			return nil, err
		}
		row := &entity.TokenUsage{
			Id:               uuid.New(),
			UserId:           userId,
			ChatId:           req.ChatId,
			MessageId:        req.MessageId,
			Model:            req.Model,
			PromptTokens:     req.PromptTokens,
			CompletionTokens: req.CompletionTokens,
			TotalTokens:      req.TotalTokens,
			CostUSD:          computeCost(req.Model, req.PromptTokens, req.CompletionTokens),
		}
		rows = append(rows, row)
		ids = append(ids, row.Id)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TokenUsageRepository().CreateBulk(ctx, rows); err != nil {
		s.log.Error("usage_service", "Failed to record token usage", map[string]interface{}{
			"user_id": userId.String(),
			"rows":    len(rows),
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to record token usage: %w", err)
	}

	return &dto.LogUsageResponse{
		Success: true,
		Ids:     ids,
	}, nil
}

func decodeUsagePayload(raw json.RawMessage) ([]dto.LogUsageRequest, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrEmptyUsageBatch
	}

	if trimmed[0] == '[' {
		var batch []dto.LogUsageRequest
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUsagePayload, err)
		}
		return batch, nil
	}

	var single dto.LogUsageRequest
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUsagePayload, err)
	}
	return []dto.LogUsageRequest{single}, nil
}
