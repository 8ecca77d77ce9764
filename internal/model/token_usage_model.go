package model

import (
	"time"

	"github.com/google/uuid"
)

type TokenUsage struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ChatId           *uuid.UUID `gorm:"type:uuid;index"`
	MessageId        *uuid.UUID `gorm:"type:uuid"`
	Model            string     `gorm:"type:varchar(100);not null"`
	PromptTokens     int        `gorm:"not null;default:0"`
	CompletionTokens int        `gorm:"not null;default:0"`
	TotalTokens      int        `gorm:"not null;default:0"`
	CostUSD          float64    `gorm:"type:numeric(12,8);not null;default:0"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;index"`
}

func (TokenUsage) TableName() string {
	return "token_usage"
}
