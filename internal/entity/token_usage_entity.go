package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenUsage is an append-only log row. Never mutated after insert.
type TokenUsage struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	ChatId           *uuid.UUID
	MessageId        *uuid.UUID
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CostUSD          float64
	CreatedAt        time.Time
}
