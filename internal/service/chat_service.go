package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/embedding"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/imagegen"
	"ai-chat-be/pkg/llm"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
)

var ErrChatNotFound = fmt.Errorf("chat not found")

// IChatService defines the chat service interface
type IChatService interface {
	CreateChat(ctx context.Context, userId uuid.UUID, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error)
	GetAllChats(ctx context.Context, userId uuid.UUID) ([]*dto.ChatResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	RenameChat(ctx context.Context, userId uuid.UUID, req *dto.RenameChatRequest) error
	DeleteChat(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) error
	SendMessage(ctx context.Context, userId uuid.UUID, chatId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	SemanticSearch(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SemanticSearchResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	llmProvider       llm.Provider
	imageProvider     imagegen.Provider
	embeddingProvider embedding.Provider
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	pipeline          PipelineConfig
	saveImageTopic    string
	embedTopic        string
	log               logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.Provider,
	imageProvider imagegen.Provider,
	embeddingProvider embedding.Provider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	pipeline PipelineConfig,
	saveImageTopic string,
	embedTopic string,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		llmProvider:       llmProvider,
		imageProvider:     imageProvider,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		pipeline:          pipeline,
		saveImageTopic:    saveImageTopic,
		embedTopic:        embedTopic,
		log:               log,
	}
}

func (cs *chatService) CreateChat(ctx context.Context, userId uuid.UUID, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	title := req.Title
	if title == "" {
		title = "New Chat"
	}

	chat := entity.Chat{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		ProjectId: req.ProjectId,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatRepository().Create(ctx, &chat); err != nil {
		return nil, err
	}

	return &dto.CreateChatResponse{Id: chat.Id}, nil
}

func (cs *chatService) GetAllChats(ctx context.Context, userId uuid.UUID) ([]*dto.ChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ChatResponse, 0, len(chats))
	for _, c := range chats {
		response = append(response, &dto.ChatResponse{
			Id:        c.Id,
			Title:     c.Title,
			ProjectId: c.ProjectId,
			CreatedAt: c.CreatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chat, err := cs.verifyChatAccess(ctx, uow, userId, chatId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, &dto.ChatMessageResponse{
			Id:          m.Id,
			ChatId:      m.ChatId,
			Role:        m.Role,
			Content:     m.Content,
			Attachments: m.Attachments,
			CreatedAt:   m.CreatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) RenameChat(ctx context.Context, userId uuid.UUID, req *dto.RenameChatRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chat, err := cs.verifyChatAccess(ctx, uow, userId, req.Id)
	if err != nil {
		return err
	}

	chat.Title = req.Title
	return uow.ChatRepository().Update(ctx, chat)
}

func (cs *chatService) DeleteChat(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chat, err := cs.verifyChatAccess(ctx, uow, userId, chatId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Cascading removal: messages first, then the chat row
	if err := uow.ChatMessageRepository().DeleteByChatId(ctx, chat.Id); err != nil {
		return err
	}
	if err := uow.ChatRepository().Delete(ctx, chat.Id); err != nil {
		return err
	}

	return uow.Commit()
}

// SendMessage runs the full chat pipeline: bounded history, model call with
// the optional image tool, persistence, and fire-and-forget background jobs.
func (cs *chatService) SendMessage(ctx context.Context, userId uuid.UUID, chatId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chat, err := cs.verifyChatAccess(ctx, uow, userId, chatId)
	if err != nil {
		return nil, err
	}

	pipeline := cs.pipeline
	if req.Variant != "" {
		pipeline = PresetFor(req.Variant)
	}

	// 1. Load recent history: newest N rows, then reverse to chronological
	// order so the model sees the conversation as it happened.
	recent, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: pipeline.HistoryLimit},
	)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	// 2. Merge file analysis into the prompt text when present.
	prompt := req.Message
	if req.FileAnalysis != "" {
		prompt = fmt.Sprintf("%s\n\n[Attached file analysis]\n%s", req.Message, req.FileAnalysis)
	}

	history := make([]llm.Message, 0, len(recent)+2)
	history = append(history, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: constant.ChatSystemPrompt,
	})
	for _, m := range recent {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	history = append(history, llm.Message{Role: constant.ChatMessageRoleUser, Content: prompt})

	// 3. Persist the user message before calling the model.
	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.ChatMessageRoleUser,
		Content:   prompt,
		CreatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}

	// 4. Invoke the model; it decides between plain text and the image tool.
	result, err := cs.llmProvider.ChatWithTools(ctx, history, []llm.Tool{generateImageTool()},
		llm.WithModel(pipeline.Model),
		llm.WithMaxTokens(pipeline.MaxTokens),
		llm.WithTemperature(pipeline.Temperature),
	)
	if err != nil {
		return nil, err
	}

	response := &dto.SendMessageResponse{Type: constant.ChatResponseTypeText}
	assistantMessage := entity.ChatMessage{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.ChatMessageRoleAssistant,
		CreatedAt: now.Add(1 * time.Millisecond),
	}

	var imageJob *dto.PublishSaveImageMessage

	if result.ToolCall != nil && result.ToolCall.Name == constant.GenerateImageToolName {
		// 5. Image path: generate synchronously, return the temporary URL
		// before durable storage completes.
		imagePrompt, err := parseImagePrompt(result.ToolCall.Arguments)
		if err != nil {
			return nil, err
		}

		generated, err := cs.imageProvider.Generate(ctx, imagePrompt)
		if err != nil {
			return nil, err
		}

		assistantMessage.Content = fmt.Sprintf(constant.ChatImageReplyTemplate, imagePrompt)
		assistantMessage.Attachments = []entity.Attachment{{
			Id:   uuid.NewString(),
			Name: fmt.Sprintf("%s.png", sanitizeTitle(imagePrompt, 40)),
			URL:  generated.URL,
			Type: "image/png",
		}}

		response.Type = constant.ChatResponseTypeImageGenerated
		response.Content = assistantMessage.Content
		response.ImageURL = generated.URL
		response.Prompt = imagePrompt

		imageJob = &dto.PublishSaveImageMessage{
			MessageId: assistantMessage.Id,
			UserId:    userId,
			ImageURL:  generated.URL,
			Prompt:    imagePrompt,
		}
	} else {
		assistantMessage.Content = result.Content
		response.Content = result.Content
	}

	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, err
	}
	response.MessageId = &assistantMessage.Id

	// 6. Derive the title from the first prompt once the first exchange
	// lands.
	if chat.Title == "" || chat.Title == "New Chat" {
		chat.Title = sanitizeTitle(req.Message, constant.ChatTitleMaxLength)
		if err := uow.ChatRepository().Update(ctx, chat); err != nil {
			return nil, err
		}
	}

	// 7. Log token usage in the same transaction; the row is append-only.
	usage := entity.TokenUsage{
		Id:               uuid.New(),
		UserId:           userId,
		ChatId:           &chat.Id,
		MessageId:        &assistantMessage.Id,
		Model:            result.Model,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
		CostUSD:          computeCost(result.Model, result.Usage.PromptTokens, result.Usage.CompletionTokens),
		CreatedAt:        time.Now(),
	}
	if err := uow.TokenUsageRepository().Create(ctx, &usage); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// 8. Fire-and-forget jobs; the caller never waits on these.
	cs.publishBackgroundJobs(ctx, userId, chat.Id, &assistantMessage, imageJob)

	return response, nil
}

func (cs *chatService) publishBackgroundJobs(ctx context.Context, userId, chatId uuid.UUID, message *entity.ChatMessage, imageJob *dto.PublishSaveImageMessage) {
	if imageJob != nil {
		payload, err := json.Marshal(imageJob)
		if err == nil {
			if err := cs.publisherService.Publish(ctx, cs.saveImageTopic, payload); err != nil {
				cs.log.Warn("chat", "failed to publish save-image job", map[string]interface{}{
					"message_id": message.Id,
					"error":      err.Error(),
				})
			}
		}
	}

	embedJob := dto.PublishEmbedMessage{MessageId: message.Id}
	if payload, err := json.Marshal(embedJob); err == nil {
		if err := cs.publisherService.Publish(ctx, cs.embedTopic, payload); err != nil {
			cs.log.Warn("chat", "failed to publish embed job", map[string]interface{}{
				"message_id": message.Id,
				"error":      err.Error(),
			})
		}
	}

	// Notify connected clients. Auxiliary: failure never fails the request.
	if cs.eventPublisher != nil {
		evt := events.NewMessageCreated(userId, chatId, message.Id, message.Role)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.log.Warn("chat", "failed to publish MESSAGE_CREATED event", map[string]interface{}{
				"message_id": message.Id,
				"error":      err.Error(),
			})
		}
	}
}

func (cs *chatService) SemanticSearch(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SemanticSearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return []*dto.SemanticSearchResponse{}, nil
	}

	vector, err := cs.embeddingProvider.Generate(ctx, query)
	if err != nil {
		return nil, err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// Restrict to the user's chats before ranking by distance.
	chats, err := uow.ChatRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return []*dto.SemanticSearchResponse{}, nil
	}

	chatIds := make([]uuid.UUID, len(chats))
	for i, c := range chats {
		chatIds[i] = c.Id
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.InChatIDs{ChatIDs: chatIds},
		specification.NearestToEmbedding{Embedding: vector},
		specification.Limit{N: 20},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SemanticSearchResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, &dto.SemanticSearchResponse{
			MessageId: m.Id,
			ChatId:    m.ChatId,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) verifyChatAccess(ctx context.Context, uow unitofwork.UnitOfWork, userId, chatId uuid.UUID) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

func generateImageTool() llm.Tool {
	return llm.Tool{
		Name:        constant.GenerateImageToolName,
		Description: "Generate an image from a detailed text prompt",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "A detailed description of the image to generate",
				},
			},
			"required": []string{"prompt"},
		},
	}
}

func parseImagePrompt(arguments string) (string, error) {
	var args struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("failed to parse tool arguments: %w", err)
	}
	if strings.TrimSpace(args.Prompt) == "" {
		return "", fmt.Errorf("tool call has empty prompt")
	}
	return args.Prompt, nil
}

func sanitizeTitle(s string, max int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

func computeCost(model string, promptTokens, completionTokens int) float64 {
	pricing := constant.PricingFor(model)
	return float64(promptTokens)/1000*pricing.PromptPer1K +
		float64(completionTokens)/1000*pricing.CompletionPer1K
}
