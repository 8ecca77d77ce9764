package embedding

import "context"

// Provider defines the contract for generating text embeddings.
type Provider interface {
	// Generate creates a vector embedding for the given text
	Generate(ctx context.Context, text string) ([]float32, error)
}
