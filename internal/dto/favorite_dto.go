package dto

import "time"

type SetFavoriteRequest struct {
	ToolName string `json:"tool_name" validate:"required,max=255"`
}

type FavoriteToolResponse struct {
	ToolName  string    `json:"tool_name"`
	CreatedAt time.Time `json:"created_at"`
}
