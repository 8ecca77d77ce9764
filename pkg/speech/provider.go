package speech

import "context"

// TranscriptionResult is the text produced from an audio clip.
type TranscriptionResult struct {
	Text string
}

// SynthesisResult is the audio produced from a text prompt.
type SynthesisResult struct {
	Audio    []byte
	MimeType string
}

// Provider defines the contract for speech-to-text and text-to-speech.
type Provider interface {
	// Transcribe converts an audio clip into text
	Transcribe(ctx context.Context, audio []byte, filename string) (*TranscriptionResult, error)

	// Synthesize converts text into spoken audio
	Synthesize(ctx context.Context, text string, voice string) (*SynthesisResult, error)
}
