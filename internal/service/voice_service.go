package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/voice"
)

var ErrVoiceSessionBusy = errors.New("voice session is busy")

// IVoiceService drives one voice interaction cycle end to end: record,
// transcribe, answer, speak. Session state lives server-side so the widget
// can rehydrate after a reconnect.
type IVoiceService interface {
	Start(ctx context.Context, userId string, req *dto.VoiceStartRequest) (*dto.VoiceStateResponse, error)
	Stop(ctx context.Context, userId string, req *dto.VoiceStopRequest) (*dto.VoiceStateResponse, error)
	Finish(ctx context.Context, userId string, req *dto.VoiceFinishRequest) (*dto.VoiceStateResponse, error)
	GetState(ctx context.Context, userId string, sessionId string) (*dto.VoiceStateResponse, error)
}

type voiceService struct {
	sessions      *memory.VoiceSessionRepository
	speechService ISpeechService
	llmProvider   llm.Provider
	pipeline      PipelineConfig
	log           logger.ILogger
}

func NewVoiceService(
	sessions *memory.VoiceSessionRepository,
	speechService ISpeechService,
	llmProvider llm.Provider,
	pipeline PipelineConfig,
	log logger.ILogger,
) IVoiceService {
	return &voiceService{
		sessions:      sessions,
		speechService: speechService,
		llmProvider:   llmProvider,
		pipeline:      pipeline,
		log:           log,
	}
}

// sessionKey namespaces sessions per user so one user cannot poke at
// another's session by guessing an id.
func sessionKey(userId, sessionId string) string {
	return fmt.Sprintf("%s:%s", userId, sessionId)
}

func (s *voiceService) Start(ctx context.Context, userId string, req *dto.VoiceStartRequest) (*dto.VoiceStateResponse, error) {
	session := s.sessions.GetOrCreate(sessionKey(userId, req.SessionId))

	if err := session.StartListening(); err != nil {
		return nil, ErrVoiceSessionBusy
	}

	return s.stateResponse(req.SessionId, session, ""), nil
}

// Stop finalizes the recording: transcribe, generate a spoken reply, and
// hand back synthesized audio. An empty capture resolves quietly to idle.
func (s *voiceService) Stop(ctx context.Context, userId string, req *dto.VoiceStopRequest) (*dto.VoiceStateResponse, error) {
	key := sessionKey(userId, req.SessionId)
	session, found := s.sessions.Get(key)
	if !found {
		return nil, errors.New("voice session not found")
	}

	transcription, err := s.transcribe(ctx, req.Audio)
	if err != nil {
		session.Fail()
		return nil, err
	}

	if err := session.StopListening(transcription); err != nil {
		return nil, ErrVoiceSessionBusy
	}

	if transcription == "" {
		// Nothing was said; no reply to produce.
		session.Fail()
		return s.stateResponse(req.SessionId, session, ""), nil
	}

	reply, err := s.generateReply(ctx, transcription)
	if err != nil {
		s.log.Error("voice_service", "Failed to generate reply", map[string]interface{}{
			"error": err.Error(),
		})
		session.Fail()
		return nil, err
	}

	synthesis, err := s.speechService.Synthesize(ctx, &dto.SynthesizeRequest{Text: reply})
	if err != nil {
		session.Fail()
		return nil, err
	}

	if err := session.BeginPlayback(reply); err != nil {
		return nil, ErrVoiceSessionBusy
	}

	return s.stateResponse(req.SessionId, session, synthesis.AudioContent), nil
}

func (s *voiceService) Finish(ctx context.Context, userId string, req *dto.VoiceFinishRequest) (*dto.VoiceStateResponse, error) {
	key := sessionKey(userId, req.SessionId)
	session, found := s.sessions.Get(key)
	if !found {
		return nil, errors.New("voice session not found")
	}

	if err := session.FinishPlayback(); err != nil {
		// Finishing an already-idle session is harmless.
		session.Fail()
	}

	return s.stateResponse(req.SessionId, session, ""), nil
}

func (s *voiceService) GetState(ctx context.Context, userId string, sessionId string) (*dto.VoiceStateResponse, error) {
	session := s.sessions.GetOrCreate(sessionKey(userId, sessionId))
	return s.stateResponse(sessionId, session, ""), nil
}

func (s *voiceService) transcribe(ctx context.Context, encodedAudio string) (string, error) {
	if encodedAudio == "" {
		return "", nil
	}
	audio, err := base64.StdEncoding.DecodeString(encodedAudio)
	if err != nil {
		return "", fmt.Errorf("invalid base64 audio payload: %w", err)
	}
	result, err := s.speechService.Transcribe(ctx, audio, "recording.webm")
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

func (s *voiceService) generateReply(ctx context.Context, transcript string) (string, error) {
	history := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.VoiceSystemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: transcript},
	}
	return s.llmProvider.Chat(ctx, history,
		llm.WithModel(s.pipeline.Model),
		llm.WithMaxTokens(s.pipeline.MaxTokens),
		llm.WithTemperature(s.pipeline.Temperature),
	)
}

func (s *voiceService) stateResponse(sessionId string, session *voice.Session, audioContent string) *dto.VoiceStateResponse {
	return &dto.VoiceStateResponse{
		SessionId:    sessionId,
		State:        string(session.State()),
		Transcript:   session.Transcript(),
		Reply:        session.Reply(),
		AudioContent: audioContent,
	}
}
