package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/storage"

	"github.com/google/uuid"
)

var errStorageUnavailable = fmt.Errorf("object storage is not configured")

// IImageService persists generated images into object storage under a
// per-user namespace.
type IImageService interface {
	SaveFromURL(ctx context.Context, userId uuid.UUID, imageURL string) (string, string, error)
	SaveFromBase64(ctx context.Context, userId uuid.UUID, req *dto.SaveImageRequest) (*dto.SaveImageResponse, error)
}

type imageService struct {
	store      storage.ObjectStore
	httpClient *http.Client
	log        logger.ILogger
}

func NewImageService(store storage.ObjectStore, log logger.ILogger) IImageService {
	return &imageService{
		store: store,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

// SaveFromURL downloads a temporary image URL and uploads it under
// {userId}/{timestamp}-{random}.png. Returns the public URL and storage key.
func (s *imageService) SaveFromURL(ctx context.Context, userId uuid.UUID, imageURL string) (string, string, error) {
	if s.store == nil {
		return "", "", errStorageUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read image body: %w", err)
	}

	key := s.objectKey(userId, "png")
	if err := s.store.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.store.PublicURL(key), key, nil
}

func (s *imageService) SaveFromBase64(ctx context.Context, userId uuid.UUID, req *dto.SaveImageRequest) (*dto.SaveImageResponse, error) {
	if s.store == nil {
		return nil, errStorageUnavailable
	}

	payload := req.ImageBase64
	// Strip a data-URI prefix if the client sent one
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}

	ext := "png"
	if req.ImageType != "" {
		if parts := strings.Split(req.ImageType, "/"); len(parts) == 2 {
			ext = parts[1]
		}
	}

	key := s.objectKey(userId, ext)
	if err := s.store.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	s.log.Info("image", "image saved", map[string]interface{}{
		"user_id": userId,
		"path":    key,
		"size":    len(data),
	})

	return &dto.SaveImageResponse{
		Success: true,
		URL:     s.store.PublicURL(key),
		Path:    key,
	}, nil
}

// objectKey builds {userId}/{timestamp}-{random}.{ext}. Re-invocation with
// identical input intentionally produces a fresh key; there is no dedup.
func (s *imageService) objectKey(userId uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%d-%06d.%s", userId, time.Now().UnixMilli(), rand.Intn(1000000), ext)
}
