package dto

import "github.com/google/uuid"

// PublishSaveImageMessage is the job payload for copying a temporary image
// URL into durable storage.
type PublishSaveImageMessage struct {
	MessageId uuid.UUID `json:"message_id"`
	UserId    uuid.UUID `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Prompt    string    `json:"prompt"`
}

// PublishEmbedMessage is the job payload for computing and patching in a
// message embedding.
type PublishEmbedMessage struct {
	MessageId uuid.UUID `json:"message_id"`
}
