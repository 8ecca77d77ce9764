package dto

import "github.com/google/uuid"

type SaveImageRequest struct {
	ImageBase64 string     `json:"imageBase64" validate:"required"`
	FileName    string     `json:"fileName"`
	ChatId      *uuid.UUID `json:"chatId"`
	ImageType   string     `json:"imageType"`
}

type SaveImageResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Path    string `json:"path"`
}
