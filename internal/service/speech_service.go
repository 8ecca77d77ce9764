package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/speech"
)

type ISpeechService interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (*dto.TranscribeResponse, error)
	TranscribeBase64(ctx context.Context, encoded string) (*dto.TranscribeResponse, error)
	Synthesize(ctx context.Context, req *dto.SynthesizeRequest) (*dto.SynthesizeResponse, error)
}

type speechService struct {
	provider speech.Provider
	log      logger.ILogger
}

func NewSpeechService(provider speech.Provider, log logger.ILogger) ISpeechService {
	return &speechService{
		provider: provider,
		log:      log,
	}
}

func (s *speechService) Transcribe(ctx context.Context, audio []byte, filename string) (*dto.TranscribeResponse, error) {
	if len(audio) == 0 {
		// An empty recording is not a failure, just nothing to transcribe.
		return &dto.TranscribeResponse{Text: ""}, nil
	}
	if filename == "" {
		filename = "audio.webm"
	}

	result, err := s.provider.Transcribe(ctx, audio, filename)
	if err != nil {
		s.log.Error("speech_service", "Transcription failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to transcribe audio: %w", err)
	}

	return &dto.TranscribeResponse{Text: result.Text}, nil
}

func (s *speechService) TranscribeBase64(ctx context.Context, encoded string) (*dto.TranscribeResponse, error) {
	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 audio payload: %w", err)
	}
	return s.Transcribe(ctx, audio, "")
}

func (s *speechService) Synthesize(ctx context.Context, req *dto.SynthesizeRequest) (*dto.SynthesizeResponse, error) {
	result, err := s.provider.Synthesize(ctx, req.Text, req.Voice)
	if err != nil {
		s.log.Error("speech_service", "Synthesis failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	return &dto.SynthesizeResponse{
		AudioContent: base64.StdEncoding.EncodeToString(result.Audio),
		MimeType:     result.MimeType,
	}, nil
}
