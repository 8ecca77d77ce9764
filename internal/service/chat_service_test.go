package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatService(uow *fakeUnitOfWork, llmProvider *fakeLLMProvider, imageProvider *fakeImageProvider) (IChatService, *fakePublisherService) {
	publisher := &fakePublisherService{}
	svc := NewChatService(
		&fakeRepositoryFactory{uow: uow},
		llmProvider,
		imageProvider,
		&fakeEmbeddingProvider{vector: []float32{0.1, 0.2}},
		publisher,
		nil,
		PresetFor("optimized"),
		"SAVE_GENERATED_IMAGE",
		"EMBED_CHAT_MESSAGE",
		nopLogger{},
	)
	return svc, publisher
}

func seedChat(uow *fakeUnitOfWork, userId uuid.UUID, title string) *entity.Chat {
	chat := &entity.Chat{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	uow.chats.rows = append(uow.chats.rows, chat)
	return chat
}

func TestSendMessageTextPath(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	chat := seedChat(uow, userId, "Existing title")

	llmProvider := &fakeLLMProvider{result: &llm.ChatResult{
		Content: "Paris is the capital of France.",
		Model:   "gpt-4o",
		Usage:   llm.Usage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150},
	}}
	imageProvider := &fakeImageProvider{url: "https://temp.example/img.png"}
	svc, publisher := newTestChatService(uow, llmProvider, imageProvider)

	res, err := svc.SendMessage(context.Background(), userId, chat.Id, &dto.SendMessageRequest{
		Message: "What is the capital of France?",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatResponseTypeText, res.Type)
	assert.Equal(t, "Paris is the capital of France.", res.Content)
	assert.Empty(t, res.ImageURL)
	assert.Zero(t, imageProvider.calls, "text replies must not touch the image provider")

	// user + assistant rows persisted
	require.Len(t, uow.messages.rows, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, uow.messages.rows[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, uow.messages.rows[1].Role)
	assert.True(t, uow.committed)

	// token usage logged with computed cost
	require.Len(t, uow.usage.rows, 1)
	usage := uow.usage.rows[0]
	assert.Equal(t, 150, usage.TotalTokens)
	assert.InDelta(t, computeCost("gpt-4o", 120, 30), usage.CostUSD, 1e-9)

	// only the embed job fires for a text reply
	require.Len(t, publisher.jobs, 1)
	assert.Equal(t, "EMBED_CHAT_MESSAGE", publisher.jobs[0].topic)
}

func TestSendMessageImagePath(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	chat := seedChat(uow, userId, "Existing title")

	llmProvider := &fakeLLMProvider{result: &llm.ChatResult{
		ToolCall: &llm.ToolCall{
			Name:      constant.GenerateImageToolName,
			Arguments: `{"prompt": "a cat wearing a top hat"}`,
		},
		Model: "gpt-4o",
		Usage: llm.Usage{PromptTokens: 80, CompletionTokens: 20, TotalTokens: 100},
	}}
	imageProvider := &fakeImageProvider{url: "https://temp.example/cat.png"}
	svc, publisher := newTestChatService(uow, llmProvider, imageProvider)

	res, err := svc.SendMessage(context.Background(), userId, chat.Id, &dto.SendMessageRequest{
		Message: "draw a cat wearing a top hat",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatResponseTypeImageGenerated, res.Type)
	assert.Equal(t, "https://temp.example/cat.png", res.ImageURL)
	assert.Equal(t, "a cat wearing a top hat", res.Prompt)
	assert.Equal(t, 1, imageProvider.calls)

	// assistant message carries the attachment with the temporary URL
	require.Len(t, uow.messages.rows, 2)
	assistant := uow.messages.rows[1]
	require.Len(t, assistant.Attachments, 1)
	assert.Equal(t, "https://temp.example/cat.png", assistant.Attachments[0].URL)

	// both background jobs fire: durable save then embedding
	require.Len(t, publisher.jobs, 2)
	assert.Equal(t, "SAVE_GENERATED_IMAGE", publisher.jobs[0].topic)
	assert.Equal(t, "EMBED_CHAT_MESSAGE", publisher.jobs[1].topic)
}

func TestSendMessageVariantOverridesPreset(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	chat := seedChat(uow, userId, "Existing title")

	llmProvider := &fakeLLMProvider{result: &llm.ChatResult{Content: "ok", Model: "gpt-4o-mini"}}
	svc, _ := newTestChatService(uow, llmProvider, &fakeImageProvider{})

	_, err := svc.SendMessage(context.Background(), userId, chat.Id, &dto.SendMessageRequest{
		Message: "hello",
		Variant: "fast",
	})
	require.NoError(t, err)

	fast := PresetFor("fast")
	assert.Equal(t, fast.Model, llmProvider.lastOptions.Model)
	assert.Equal(t, fast.MaxTokens, llmProvider.lastOptions.MaxTokens)

	// without a variant the configured preset applies
	_, err = svc.SendMessage(context.Background(), userId, chat.Id, &dto.SendMessageRequest{Message: "again"})
	require.NoError(t, err)
	assert.Equal(t, PresetFor("optimized").Model, llmProvider.lastOptions.Model)
}

func TestSendMessageHistoryWindow(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	chat := seedChat(uow, userId, "Existing title")

	// Seed more history than the window holds.
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		uow.messages.rows = append(uow.messages.rows, &entity.ChatMessage{
			Id:        uuid.New(),
			ChatId:    chat.Id,
			Role:      constant.ChatMessageRoleUser,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	llmProvider := &fakeLLMProvider{result: &llm.ChatResult{Content: "ok", Model: "gpt-4o"}}
	svc, _ := newTestChatService(uow, llmProvider, &fakeImageProvider{})

	_, err := svc.SendMessage(context.Background(), userId, chat.Id, &dto.SendMessageRequest{Message: "newest"})
	require.NoError(t, err)

	// system + 10 most recent + the new user message
	history := llmProvider.lastHistory
	require.Len(t, history, 12)
	assert.Equal(t, constant.ChatMessageRoleSystem, history[0].Role)
	assert.Equal(t, "message 5", history[1].Content, "oldest retained message is the 6th")
	assert.Equal(t, "message 14", history[10].Content)
	assert.Equal(t, "newest", history[11].Content)
}

func TestSendMessageDerivesTitleFromFirstPrompt(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	chat := seedChat(uow, userId, "New Chat")

	llmProvider := &fakeLLMProvider{result: &llm.ChatResult{Content: "hi", Model: "gpt-4o"}}
	svc, _ := newTestChatService(uow, llmProvider, &fakeImageProvider{})

	long := "Tell me everything about the history of container orchestration platforms"
	_, err := svc.SendMessage(context.Background(), userId, chat.Id, &dto.SendMessageRequest{Message: long})
	require.NoError(t, err)

	stored, err := uow.chats.FindOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constant.ChatTitleMaxLength, len([]rune(stored.Title)))
	assert.Equal(t, string([]rune(long)[:constant.ChatTitleMaxLength]), stored.Title)
}

func TestSendMessageUnknownChat(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc, _ := newTestChatService(uow, &fakeLLMProvider{}, &fakeImageProvider{})

	_, err := svc.SendMessage(context.Background(), uuid.New(), uuid.New(), &dto.SendMessageRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestSendMessageOtherUsersChat(t *testing.T) {
	uow := newFakeUnitOfWork()
	owner := uuid.New()
	chat := seedChat(uow, owner, "Private")

	svc, _ := newTestChatService(uow, &fakeLLMProvider{}, &fakeImageProvider{})

	_, err := svc.SendMessage(context.Background(), uuid.New(), chat.Id, &dto.SendMessageRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestSendMessageProviderFailureLeavesNoAssistantRow(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	chat := seedChat(uow, userId, "Existing title")

	llmProvider := &fakeLLMProvider{err: errors.New("upstream timeout")}
	svc, publisher := newTestChatService(uow, llmProvider, &fakeImageProvider{})

	_, err := svc.SendMessage(context.Background(), userId, chat.Id, &dto.SendMessageRequest{Message: "hello"})
	require.Error(t, err)

	assert.False(t, uow.committed)
	assert.Empty(t, publisher.jobs)
}

func TestSemanticSearchScopedToOwnChats(t *testing.T) {
	uow := newFakeUnitOfWork()
	userId := uuid.New()
	mine := seedChat(uow, userId, "Mine")
	theirs := seedChat(uow, uuid.New(), "Theirs")

	uow.messages.rows = append(uow.messages.rows,
		&entity.ChatMessage{Id: uuid.New(), ChatId: mine.Id, Content: "my secret plan", CreatedAt: time.Now()},
		&entity.ChatMessage{Id: uuid.New(), ChatId: theirs.Id, Content: "their secret plan", CreatedAt: time.Now()},
	)

	svc, _ := newTestChatService(uow, &fakeLLMProvider{}, &fakeImageProvider{})

	results, err := svc.SemanticSearch(context.Background(), userId, "secret plan")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "my secret plan", results[0].Content)
}

func TestSemanticSearchEmptyQuery(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc, _ := newTestChatService(uow, &fakeLLMProvider{}, &fakeImageProvider{})

	results, err := svc.SemanticSearch(context.Background(), uuid.New(), "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short passthrough", "Hello", 50, "Hello"},
		{"trims whitespace", "  Hello  ", 50, "Hello"},
		{"newlines become spaces", "line1\nline2", 50, "line1 line2"},
		{"truncates at limit", "abcdefghij", 4, "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeTitle(tt.in, tt.max))
		})
	}
}

func TestParseImagePrompt(t *testing.T) {
	prompt, err := parseImagePrompt(`{"prompt": "a red bicycle"}`)
	require.NoError(t, err)
	assert.Equal(t, "a red bicycle", prompt)

	_, err = parseImagePrompt(`{"prompt": ""}`)
	assert.Error(t, err)

	_, err = parseImagePrompt(`not json`)
	assert.Error(t, err)
}

func TestComputeCost(t *testing.T) {
	// gpt-4o-mini: 0.00015 prompt / 0.0006 completion per 1K
	cost := computeCost("gpt-4o-mini", 1000, 1000)
	assert.InDelta(t, 0.00075, cost, 1e-9)

	// unknown models fall back to default pricing rather than zero
	assert.Greater(t, computeCost("some-future-model", 1000, 0), 0.0)
}
