package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IWorkerService consumes the background job topics. Delivery is
// at-least-once: handlers must be safe to re-run.
type IWorkerService interface {
	Consume(ctx context.Context) error
}

type workerService struct {
	pubSub            *gochannel.GoChannel
	saveImageTopic    string
	embedTopic        string
	uowFactory        unitofwork.RepositoryFactory
	imageService      IImageService
	embeddingProvider embedding.Provider
}

func NewWorkerService(
	pubSub *gochannel.GoChannel,
	saveImageTopic string,
	embedTopic string,
	uowFactory unitofwork.RepositoryFactory,
	imageService IImageService,
	embeddingProvider embedding.Provider,
) IWorkerService {
	return &workerService{
		pubSub:            pubSub,
		saveImageTopic:    saveImageTopic,
		embedTopic:        embedTopic,
		uowFactory:        uowFactory,
		imageService:      imageService,
		embeddingProvider: embeddingProvider,
	}
}

func (ws *workerService) Consume(ctx context.Context) error {
	imageMessages, err := ws.pubSub.Subscribe(ctx, ws.saveImageTopic)
	if err != nil {
		return err
	}
	embedMessages, err := ws.pubSub.Subscribe(ctx, ws.embedTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range imageMessages {
			ws.processSaveImage(ctx, msg)
		}
	}()
	go func() {
		for msg := range embedMessages {
			ws.processEmbedMessage(ctx, msg)
		}
	}()

	return nil
}

// processSaveImage copies a temporary image URL into durable storage and
// patches the message attachment to the permanent URL.
func (ws *workerService) processSaveImage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishSaveImageMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal save-image job: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Persisting generated image for message %s", payload.MessageId)

	publicURL, key, err := ws.imageService.SaveFromURL(ctx, payload.UserId, payload.ImageURL)
	if err != nil {
		// The temporary URL expires; a retry beyond its lifetime can never
		// succeed, but inside the window it can. Nack and let the broker
		// redeliver.
		log.Printf("[ERROR] Failed to persist image for message %s: %v", payload.MessageId, err)
		msg.Nack()
		return
	}

	uow := ws.uowFactory.NewUnitOfWork(ctx)

	chatMessage, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: payload.MessageId})
	if err != nil {
		log.Printf("[ERROR] Failed to load message %s: %v", payload.MessageId, err)
		msg.Nack()
		return
	}
	if chatMessage == nil {
		log.Printf("[WARN] Message %s no longer exists, dropping image %s", payload.MessageId, key)
		msg.Ack()
		return
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Swap the temporary URL for the durable one.
	replaced := false
	for i := range chatMessage.Attachments {
		if chatMessage.Attachments[i].URL == payload.ImageURL {
			chatMessage.Attachments[i].URL = publicURL
			replaced = true
		}
	}
	if !replaced {
		chatMessage.Attachments = append(chatMessage.Attachments, entity.Attachment{
			Id:   payload.MessageId.String(),
			Name: "generated.png",
			URL:  publicURL,
			Type: "image/png",
		})
	}

	if err := uow.ChatMessageRepository().Update(ctx, chatMessage); err != nil {
		log.Printf("[ERROR] Failed to update message attachments: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Image persisted for message %s at %s", payload.MessageId, key)
	msg.Ack()
}

// processEmbedMessage computes the embedding for a stored message and
// patches it in afterward. Readers treat the column as eventually
// consistent.
func (ws *workerService) processEmbedMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed job: %v", err)
		msg.Ack()
		return
	}

	uow := ws.uowFactory.NewUnitOfWork(ctx)

	chatMessage, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: payload.MessageId})
	if err != nil {
		log.Printf("[ERROR] Failed to load message %s: %v", payload.MessageId, err)
		msg.Nack()
		return
	}
	if chatMessage == nil {
		log.Printf("[WARN] Message %s not found, skipping embedding", payload.MessageId)
		msg.Ack()
		return
	}
	if chatMessage.Content == "" {
		msg.Ack()
		return
	}

	vector, err := ws.embeddingProvider.Generate(ctx, chatMessage.Content)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for message %s: %v", payload.MessageId, err)
		msg.Nack()
		return
	}

	if err := uow.ChatMessageRepository().UpdateEmbedding(ctx, chatMessage.Id, vector); err != nil {
		log.Printf("[ERROR] Failed to patch embedding for message %s: %v", payload.MessageId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Embedding patched for message %s", payload.MessageId)
	msg.Ack()
}
