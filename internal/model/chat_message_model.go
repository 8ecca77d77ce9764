package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Role        string           `gorm:"type:varchar(50);not null"`
	Content     string           `gorm:"type:text;not null"`
	Attachments datatypes.JSON   `gorm:"type:jsonb"`
	Embedding   *pgvector.Vector `gorm:"type:vector(1536)"` // null until the background worker patches it in
	CreatedAt   time.Time        `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt   `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
