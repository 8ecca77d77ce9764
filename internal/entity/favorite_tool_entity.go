package entity

import (
	"time"

	"github.com/google/uuid"
)

type FavoriteTool struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ToolName  string
	CreatedAt time.Time
}
