package model

import (
	"time"

	"github.com/google/uuid"
)

type FavoriteTool struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	ToolName  string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FavoriteTool) TableName() string {
	return "favorite_tools"
}
