package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
}

type UpdateProjectRequest struct {
	Id          uuid.UUID `json:"-"`
	Title       string    `json:"title" validate:"required,max=255"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Description *string   `json:"description"`
}

type ProjectResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
