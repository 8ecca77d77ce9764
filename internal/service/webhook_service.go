package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var ErrDuplicateDelivery = fmt.Errorf("duplicate webhook delivery")

// IWebhookService ingests asynchronous callbacks carrying finished AI
// responses or generated images.
type IWebhookService interface {
	HandleMessage(ctx context.Context, userId uuid.UUID, req *dto.WebhookRequest) (*dto.WebhookResponse, error)
}

type webhookService struct {
	uowFactory     unitofwork.RepositoryFactory
	imageService   IImageService
	eventPublisher *pktNats.Publisher
	// dedup suppresses identical deliveries inside a short window. External
	// automation tools retry aggressively; without this every retry became
	// a duplicate assistant message.
	dedup *cache.Cache
	log   logger.ILogger
}

func NewWebhookService(
	uowFactory unitofwork.RepositoryFactory,
	imageService IImageService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IWebhookService {
	return &webhookService{
		uowFactory:     uowFactory,
		imageService:   imageService,
		eventPublisher: eventPublisher,
		dedup:          cache.New(2*time.Minute, 5*time.Minute),
		log:            log,
	}
}

func (ws *webhookService) HandleMessage(ctx context.Context, userId uuid.UUID, req *dto.WebhookRequest) (*dto.WebhookResponse, error) {
	payload, err := DecodeWebhookPayload(req.ResponseData)
	if err != nil {
		return nil, err
	}

	// Suppress identical deliveries within the window.
	key := ws.dedupKey(req)
	if _, found := ws.dedup.Get(key); found {
		ws.log.Warn("webhook", "duplicate delivery suppressed", map[string]interface{}{
			"chat_id": req.ChatId,
		})
		return nil, ErrDuplicateDelivery
	}

	uow := ws.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: req.ChatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	message := entity.ChatMessage{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.ChatMessageRoleAssistant,
		Content:   payload.Content,
		CreatedAt: time.Now(),
	}

	// Upload any embedded image before the insert so the attachment URL is
	// durable from the start.
	if payload.ImageBase64 != "" {
		saved, err := ws.imageService.SaveFromBase64(ctx, userId, &dto.SaveImageRequest{
			ImageBase64: payload.ImageBase64,
			ChatId:      &chat.Id,
		})
		if err != nil {
			return nil, err
		}
		message.Attachments = []entity.Attachment{{
			Id:   uuid.NewString(),
			Name: "generated.png",
			URL:  saved.URL,
			Type: "image/png",
		}}
		if message.Content == "" {
			message.Content = "I've generated an image for you."
		}
	}

	if err := uow.ChatMessageRepository().Create(ctx, &message); err != nil {
		return nil, err
	}

	ws.dedup.Set(key, struct{}{}, cache.DefaultExpiration)

	if ws.eventPublisher != nil {
		evt := events.NewMessageCreated(userId, chat.Id, message.Id, message.Role)
		if err := ws.eventPublisher.Publish(ctx, evt); err != nil {
			ws.log.Warn("webhook", "failed to publish MESSAGE_CREATED event", map[string]interface{}{
				"message_id": message.Id,
				"error":      err.Error(),
			})
		}
	}

	return &dto.WebhookResponse{
		Success:   true,
		MessageId: message.Id,
	}, nil
}

func (ws *webhookService) dedupKey(req *dto.WebhookRequest) string {
	sum := sha256.Sum256(append([]byte(req.ChatId.String()), req.ResponseData...))
	return hex.EncodeToString(sum[:])
}
