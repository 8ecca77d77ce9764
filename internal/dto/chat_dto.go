package dto

import (
	"time"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	Title     string     `json:"title"`
	ProjectId *uuid.UUID `json:"project_id"`
}

type CreateChatResponse struct {
	Id uuid.UUID `json:"id"`
}

type RenameChatRequest struct {
	Id    uuid.UUID `json:"-"`
	Title string    `json:"title" validate:"required,max=255"`
}

type ChatResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	ProjectId *uuid.UUID `json:"project_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ChatMessageResponse struct {
	Id          uuid.UUID           `json:"id"`
	ChatId      uuid.UUID           `json:"chat_id"`
	Role        string              `json:"role"`
	Content     string              `json:"content"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type SendMessageRequest struct {
	Message      string `json:"message" validate:"required"`
	FileAnalysis string `json:"file_analysis"`
	Variant      string `json:"variant" validate:"omitempty,oneof=baseline fast optimized"`
}

// SendMessageResponse matches the contract the chat widget consumes: Type is
// "text", "image_generated" or "error".
type SendMessageResponse struct {
	Type      string     `json:"type"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"image_url,omitempty"`
	Prompt    string     `json:"prompt,omitempty"`
	MessageId *uuid.UUID `json:"message_id,omitempty"`
}

type SemanticSearchResponse struct {
	MessageId uuid.UUID `json:"message_id"`
	ChatId    uuid.UUID `json:"chat_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
