package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WebhookPayload is the normalized form of the heterogeneous shapes an
// external automation tool delivers. Exactly one decoding succeeds; anything
// unrecognized is rejected rather than silently coerced.
type WebhookPayload struct {
	Content     string
	ImageBase64 string
}

// HasContent reports whether the payload resolved to anything usable.
func (p WebhookPayload) HasContent() bool {
	return strings.TrimSpace(p.Content) != "" || p.ImageBase64 != ""
}

var ErrUnrecognizedPayload = fmt.Errorf("webhook payload has no recognizable content")

type webhookItem struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

type webhookObject struct {
	Text        string `json:"text"`
	Content     string `json:"content"`
	Output      string `json:"output"`
	ImageBase64 string `json:"image_base64"`
}

// DecodeWebhookPayload normalizes response_data. Recognized shapes:
//   - JSON string: the string is the content
//   - array of {text|content}: items joined by newlines
//   - object with text/content/output and/or image_base64
//
// Every other shape fails with ErrUnrecognizedPayload.
func DecodeWebhookPayload(raw json.RawMessage) (WebhookPayload, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return WebhookPayload{}, ErrUnrecognizedPayload
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return WebhookPayload{}, ErrUnrecognizedPayload
		}
		p := WebhookPayload{Content: s}
		if !p.HasContent() {
			return WebhookPayload{}, ErrUnrecognizedPayload
		}
		return p, nil

	case '[':
		var items []webhookItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return WebhookPayload{}, ErrUnrecognizedPayload
		}
		var parts []string
		for _, item := range items {
			if item.Text != "" {
				parts = append(parts, item.Text)
			} else if item.Content != "" {
				parts = append(parts, item.Content)
			}
		}
		p := WebhookPayload{Content: strings.Join(parts, "\n")}
		if !p.HasContent() {
			return WebhookPayload{}, ErrUnrecognizedPayload
		}
		return p, nil

	case '{':
		var obj webhookObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return WebhookPayload{}, ErrUnrecognizedPayload
		}
		content := obj.Text
		if content == "" {
			content = obj.Content
		}
		if content == "" {
			content = obj.Output
		}
		p := WebhookPayload{Content: content, ImageBase64: obj.ImageBase64}
		if !p.HasContent() {
			return WebhookPayload{}, ErrUnrecognizedPayload
		}
		return p, nil
	}

	return WebhookPayload{}, ErrUnrecognizedPayload
}
