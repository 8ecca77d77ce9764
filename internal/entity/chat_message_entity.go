package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is one file linked to a message.
type Attachment struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type ChatMessage struct {
	Id          uuid.UUID
	ChatId      uuid.UUID `gorm:"type:uuid;index"`
	Role        string
	Content     string
	Attachments []Attachment
	// Embedding is patched in after creation by the background worker and
	// must be treated as eventually consistent.
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
