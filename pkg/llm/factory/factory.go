package factory

import (
	"fmt"

	"ai-chat-be/pkg/llm"
	"ai-chat-be/pkg/llm/openai"
)

// NewProvider builds an llm.Provider from configuration values.
func NewProvider(providerName, baseURL, apiKey, model string) (llm.Provider, error) {
	switch providerName {
	case "openai":
		return openai.NewProvider(baseURL, apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", providerName)
	}
}
