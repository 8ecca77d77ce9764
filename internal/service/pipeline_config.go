package service

import "ai-chat-be/internal/constant"

// PipelineConfig tunes the chat pipeline, selected by preset name.
type PipelineConfig struct {
	Model        string
	HistoryLimit int
	MaxTokens    int
	Temperature  float64
}

var pipelinePresets = map[string]PipelineConfig{
	// Full model with a generous output limit.
	"baseline": {
		Model:        "gpt-4-turbo",
		HistoryLimit: constant.ChatHistoryWindow,
		MaxTokens:    2048,
		Temperature:  0.7,
	},
	// Smaller model, tighter output for latency-sensitive clients.
	"fast": {
		Model:        "gpt-4o-mini",
		HistoryLimit: constant.ChatHistoryWindow,
		MaxTokens:    1024,
		Temperature:  0.7,
	},
	// Default: full model with a bounded context window.
	"optimized": {
		Model:        "gpt-4o",
		HistoryLimit: constant.ChatHistoryWindow,
		MaxTokens:    1536,
		Temperature:  0.7,
	},
}

// PresetFor resolves a preset name, falling back to "optimized".
func PresetFor(name string) PipelineConfig {
	if cfg, ok := pipelinePresets[name]; ok {
		return cfg
	}
	return pipelinePresets["optimized"]
}
