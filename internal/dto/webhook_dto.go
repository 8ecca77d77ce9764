package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// WebhookRequest is the raw inbound callback. ResponseData is decoded by the
// webhook service into one of the recognized payload shapes.
type WebhookRequest struct {
	ChatId       uuid.UUID       `json:"chat_id" validate:"required"`
	ResponseData json.RawMessage `json:"response_data" validate:"required"`
}

type WebhookResponse struct {
	Success   bool      `json:"success"`
	MessageId uuid.UUID `json:"message_id"`
}
