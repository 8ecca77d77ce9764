package imagegen

import "context"

// Result is one generated image. URL points at a short-lived location on
// the provider's side; callers that want to keep the image must copy it
// into durable storage.
type Result struct {
	URL           string
	B64           string
	RevisedPrompt string
}

// Provider defines the contract for image generation backends.
type Provider interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}
