package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWebhookPayload(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantContent string
		wantImage   string
		wantErr     bool
	}{
		{
			name:        "plain string",
			raw:         `"The answer is 42."`,
			wantContent: "The answer is 42.",
		},
		{
			name:        "array of text items",
			raw:         `[{"text": "first"}, {"text": "second"}]`,
			wantContent: "first\nsecond",
		},
		{
			name:        "array of content items",
			raw:         `[{"content": "only"}]`,
			wantContent: "only",
		},
		{
			name:        "array mixes text and content",
			raw:         `[{"text": "a"}, {"content": "b"}]`,
			wantContent: "a\nb",
		},
		{
			name:        "object with text",
			raw:         `{"text": "hello"}`,
			wantContent: "hello",
		},
		{
			name:        "object falls back to content",
			raw:         `{"content": "fallback"}`,
			wantContent: "fallback",
		},
		{
			name:        "object falls back to output",
			raw:         `{"output": "last resort"}`,
			wantContent: "last resort",
		},
		{
			name:        "text wins over content and output",
			raw:         `{"text": "t", "content": "c", "output": "o"}`,
			wantContent: "t",
		},
		{
			name:      "object with only an image",
			raw:       `{"image_base64": "aGVsbG8="}`,
			wantImage: "aGVsbG8=",
		},
		{
			name:        "object with text and image",
			raw:         `{"text": "here it is", "image_base64": "aGVsbG8="}`,
			wantContent: "here it is",
			wantImage:   "aGVsbG8=",
		},
		{
			name:    "empty string rejected",
			raw:     `""`,
			wantErr: true,
		},
		{
			name:    "whitespace-only string rejected",
			raw:     `"   "`,
			wantErr: true,
		},
		{
			name:    "empty object rejected",
			raw:     `{}`,
			wantErr: true,
		},
		{
			name:    "empty array rejected",
			raw:     `[]`,
			wantErr: true,
		},
		{
			name:    "array of unknown objects rejected",
			raw:     `[{"foo": "bar"}]`,
			wantErr: true,
		},
		{
			name:    "number rejected",
			raw:     `42`,
			wantErr: true,
		},
		{
			name:    "boolean rejected",
			raw:     `true`,
			wantErr: true,
		},
		{
			name:    "null rejected",
			raw:     `null`,
			wantErr: true,
		},
		{
			name:    "malformed json rejected",
			raw:     `{"text": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := DecodeWebhookPayload(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnrecognizedPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, payload.Content)
			assert.Equal(t, tt.wantImage, payload.ImageBase64)
		})
	}
}
