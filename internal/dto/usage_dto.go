package dto

import "github.com/google/uuid"

type LogUsageRequest struct {
	Model            string     `json:"model" validate:"required"`
	PromptTokens     int        `json:"promptTokens"`
	CompletionTokens int        `json:"completionTokens"`
	TotalTokens      int        `json:"totalTokens" validate:"required,min=1"`
	ChatId           *uuid.UUID `json:"chatId"`
	MessageId        *uuid.UUID `json:"messageId"`
}

type LogUsageResponse struct {
	Success bool        `json:"success"`
	Ids     []uuid.UUID `json:"ids"`
}
