package service

import (
	"context"
	"strings"

	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/events"
	pkgNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// IRealtimeService bridges the domain event bus to connected websocket
// clients: every event carrying a user_id is pushed to that user.
type IRealtimeService interface {
	Start() error
}

type realtimeService struct {
	subscriber *pkgNats.Subscriber
	hub        *websocket.Hub
	log        logger.ILogger
}

func NewRealtimeService(subscriber *pkgNats.Subscriber, hub *websocket.Hub, log logger.ILogger) IRealtimeService {
	return &realtimeService{
		subscriber: subscriber,
		hub:        hub,
		log:        log,
	}
}

func (s *realtimeService) Start() error {
	if s.subscriber == nil {
		s.log.Warn("realtime_service", "Event bus unavailable, realtime push disabled", nil)
		return nil
	}
	return s.subscriber.Subscribe("events.>", "realtime-push", s.handleEvent)
}

func (s *realtimeService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	rawUserId, ok := payload["user_id"].(string)
	if !ok {
		// Events without a target user are not pushable; ack and move on.
		return nil
	}
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		return nil
	}

	// Subjects arrive as "events.MESSAGE_CREATED"; clients only see the code.
	eventType := strings.TrimPrefix(event.EventType(), "events.")

	s.hub.Send(userId, eventType, payload)
	return nil
}
