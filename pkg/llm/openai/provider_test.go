package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatWithToolsParsesToolCall(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model": "gpt-4o",
			"choices": [{
				"message": {
					"content": "",
					"tool_calls": [{
						"function": {
							"name": "generate_image",
							"arguments": "{\"prompt\": \"a lighthouse at dusk\"}"
						}
					}]
				},
				"finish_reason": "tool_calls"
			}],
			"usage": {"prompt_tokens": 42, "completion_tokens": 7, "total_tokens": 49}
		}`))
	}))
	defer server.Close()

	provider := NewProvider(server.URL, "test-key", "gpt-4o")

	tools := []llm.Tool{{Name: "generate_image", Description: "Generate an image"}}
	result, err := provider.ChatWithTools(context.Background(),
		[]llm.Message{{Role: "user", Content: "draw a lighthouse"}},
		tools,
		llm.WithMaxTokens(256),
		llm.WithTemperature(0.7),
	)
	require.NoError(t, err)

	require.NotNil(t, result.ToolCall)
	assert.Equal(t, "generate_image", result.ToolCall.Name)
	assert.JSONEq(t, `{"prompt": "a lighthouse at dusk"}`, result.ToolCall.Arguments)
	assert.Equal(t, "gpt-4o", result.Model)
	assert.Equal(t, 49, result.Usage.TotalTokens)

	// the request carried the tool definition and options
	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "function", captured.Tools[0].Type)
	assert.Equal(t, "auto", captured.ToolChoice)
	assert.Equal(t, 256, captured.MaxTokens)
	assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
}

func TestChatReturnsPlainContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model": "gpt-4o",
			"choices": [{"message": {"content": "Hello there."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8}
		}`))
	}))
	defer server.Close()

	provider := NewProvider(server.URL, "test-key", "gpt-4o")

	content, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", content)
}

func TestChatSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	provider := NewProvider(server.URL, "test-key", "gpt-4o")

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model": "gpt-4o", "choices": []}`))
	}))
	defer server.Close()

	provider := NewProvider(server.URL, "test-key", "gpt-4o")

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}
