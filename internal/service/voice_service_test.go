package service

import (
	"context"
	"encoding/base64"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/pkg/speech"
	"ai-chat-be/pkg/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpeechProvider struct {
	transcript string
	audio      []byte
	err        error
}

func (p *fakeSpeechProvider) Transcribe(ctx context.Context, audio []byte, filename string) (*speech.TranscriptionResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &speech.TranscriptionResult{Text: p.transcript}, nil
}

func (p *fakeSpeechProvider) Synthesize(ctx context.Context, text, voiceName string) (*speech.SynthesisResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &speech.SynthesisResult{Audio: p.audio, MimeType: "audio/mpeg"}, nil
}

func newTestVoiceService(provider *fakeSpeechProvider, llmProvider *fakeLLMProvider) IVoiceService {
	sessions := memory.NewVoiceSessionRepository()
	speechSvc := NewSpeechService(provider, nopLogger{})
	return NewVoiceService(sessions, speechSvc, llmProvider, PresetFor("optimized"), nopLogger{})
}

func TestVoiceFullCycle(t *testing.T) {
	provider := &fakeSpeechProvider{transcript: "what time is it", audio: []byte("mp3 bytes")}
	llmProvider := &fakeLLMProvider{chatReply: "It is noon."}
	svc := newTestVoiceService(provider, llmProvider)

	userId := "user-1"
	state, err := svc.Start(context.Background(), userId, &dto.VoiceStartRequest{SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, string(voice.StateListening), state.State)

	state, err = svc.Stop(context.Background(), userId, &dto.VoiceStopRequest{
		SessionId: "s1",
		Audio:     base64.StdEncoding.EncodeToString([]byte("recording")),
	})
	require.NoError(t, err)
	assert.Equal(t, string(voice.StatePlaying), state.State)
	assert.Equal(t, "what time is it", state.Transcript)
	assert.Equal(t, "It is noon.", state.Reply)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("mp3 bytes")), state.AudioContent)

	state, err = svc.Finish(context.Background(), userId, &dto.VoiceFinishRequest{SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, string(voice.StateIdle), state.State)
}

func TestVoiceRejectsReentrantStart(t *testing.T) {
	provider := &fakeSpeechProvider{transcript: "hello", audio: []byte("x")}
	svc := newTestVoiceService(provider, &fakeLLMProvider{chatReply: "hi"})

	userId := "user-1"
	_, err := svc.Start(context.Background(), userId, &dto.VoiceStartRequest{SessionId: "s1"})
	require.NoError(t, err)

	_, err = svc.Stop(context.Background(), userId, &dto.VoiceStopRequest{
		SessionId: "s1",
		Audio:     base64.StdEncoding.EncodeToString([]byte("rec")),
	})
	require.NoError(t, err)

	// Session is now playing; a new start must be rejected.
	_, err = svc.Start(context.Background(), userId, &dto.VoiceStartRequest{SessionId: "s1"})
	assert.ErrorIs(t, err, ErrVoiceSessionBusy)
}

func TestVoiceEmptyRecordingResolvesQuietly(t *testing.T) {
	provider := &fakeSpeechProvider{transcript: "", audio: []byte("x")}
	llmProvider := &fakeLLMProvider{chatReply: "unused"}
	svc := newTestVoiceService(provider, llmProvider)

	userId := "user-1"
	_, err := svc.Start(context.Background(), userId, &dto.VoiceStartRequest{SessionId: "s1"})
	require.NoError(t, err)

	state, err := svc.Stop(context.Background(), userId, &dto.VoiceStopRequest{SessionId: "s1", Audio: ""})
	require.NoError(t, err)
	assert.Equal(t, string(voice.StateIdle), state.State)
	assert.Zero(t, llmProvider.calls, "an empty capture must not reach the model")

	// The cycle can start again immediately.
	_, err = svc.Start(context.Background(), userId, &dto.VoiceStartRequest{SessionId: "s1"})
	assert.NoError(t, err)
}

func TestVoiceTranscriptionFailureResetsToIdle(t *testing.T) {
	provider := &fakeSpeechProvider{err: assert.AnError}
	svc := newTestVoiceService(provider, &fakeLLMProvider{})

	userId := "user-1"
	_, err := svc.Start(context.Background(), userId, &dto.VoiceStartRequest{SessionId: "s1"})
	require.NoError(t, err)

	_, err = svc.Stop(context.Background(), userId, &dto.VoiceStopRequest{
		SessionId: "s1",
		Audio:     base64.StdEncoding.EncodeToString([]byte("rec")),
	})
	require.Error(t, err)

	state, err := svc.GetState(context.Background(), userId, "s1")
	require.NoError(t, err)
	assert.Equal(t, string(voice.StateIdle), state.State)
	assert.Empty(t, state.Transcript)
}

func TestVoiceSessionsAreScopedPerUser(t *testing.T) {
	provider := &fakeSpeechProvider{transcript: "hi", audio: []byte("x")}
	svc := newTestVoiceService(provider, &fakeLLMProvider{chatReply: "hello"})

	_, err := svc.Start(context.Background(), "user-a", &dto.VoiceStartRequest{SessionId: "shared"})
	require.NoError(t, err)

	// Same session id, different user: independent state machine.
	state, err := svc.Start(context.Background(), "user-b", &dto.VoiceStartRequest{SessionId: "shared"})
	require.NoError(t, err)
	assert.Equal(t, string(voice.StateListening), state.State)
}
