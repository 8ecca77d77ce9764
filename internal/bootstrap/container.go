package bootstrap

import (
	"context"
	"log"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/handler"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/billing"
	"ai-chat-be/pkg/embedding"
	"ai-chat-be/pkg/imagegen"
	"ai-chat-be/pkg/llm/factory"
	pktNats "ai-chat-be/pkg/nats"
	"ai-chat-be/pkg/speech"
	"ai-chat-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController         controller.IChatController
	ImageController        controller.IImageController
	WebhookController      controller.IWebhookController
	SpeechController       controller.ISpeechController
	VoiceController        controller.IVoiceController
	SubscriptionController controller.ISubscriptionController
	UsageController        controller.IUsageController
	ProjectController      controller.IProjectController
	FavoriteController     controller.IFavoriteController
	AccountController      controller.IAccountController

	// Background Services (Exposed for main.go to run)
	WorkerService service.IWorkerService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus (in-process job queue)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. AI Providers
	pipeline := service.PresetFor(cfg.Ai.ChatPreset)
	log.Printf("[INFO] Using chat pipeline preset: %s (%s)", cfg.Ai.ChatPreset, pipeline.Model)

	llmProvider, err := factory.NewProvider(cfg.Ai.Provider, cfg.Ai.BaseURL, cfg.Keys.OpenAI, pipeline.Model)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}

	embeddingProvider := embedding.NewOpenAIProvider(cfg.Ai.BaseURL, cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
	speechProvider := speech.NewOpenAIProvider(cfg.Ai.BaseURL, cfg.Keys.OpenAI, cfg.Ai.TranscribeModel, cfg.Ai.SynthesizeModel)
	imageProvider := imagegen.NewOpenAIProvider(cfg.Ai.BaseURL, cfg.Keys.OpenAI, cfg.Ai.ImageModel)

	// Object storage
	store, err := storage.NewBucketStore(context.Background(), cfg.Storage.Bucket)
	if err != nil {
		log.Printf("[WARN] Failed to initialize object storage: %v", err)
	}

	// Billing
	billingClient, err := billing.NewStripeClient(cfg.Keys.Stripe)
	if err != nil {
		log.Printf("[WARN] Failed to initialize billing client: %v", err)
	}

	// In-memory voice sessions
	voiceSessions := memory.NewVoiceSessionRepository()

	// 4. Services
	publisherService := service.NewPublisherService(pubSub)
	imageService := service.NewImageService(store, sysLogger)

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		imageProvider,
		embeddingProvider,
		publisherService,
		natsPub,
		pipeline,
		cfg.Topics.SaveImage,
		cfg.Topics.EmbedMessage,
		sysLogger,
	)

	webhookService := service.NewWebhookService(uowFactory, imageService, natsPub, sysLogger)
	speechService := service.NewSpeechService(speechProvider, sysLogger)
	voiceService := service.NewVoiceService(voiceSessions, speechService, llmProvider, pipeline, sysLogger)
	subscriptionService := service.NewSubscriptionService(uowFactory, billingClient, rdb, natsPub, sysLogger)
	usageService := service.NewUsageService(uowFactory, sysLogger)
	accountService := service.NewAccountService(uowFactory, store, emailService, natsPub, sysLogger)
	projectService := service.NewProjectService(uowFactory, sysLogger)
	favoriteService := service.NewFavoriteService(uowFactory, sysLogger)

	workerService := service.NewWorkerService(
		pubSub,
		cfg.Topics.SaveImage,
		cfg.Topics.EmbedMessage,
		uowFactory,
		imageService,
		embeddingProvider,
	)

	// Realtime push (event bus -> websocket)
	realtimeService := service.NewRealtimeService(natsSub, wsHub, wsLogger)
	if err := realtimeService.Start(); err != nil {
		log.Printf("[WARN] Failed to start realtime push: %v", err)
	}

	streamHandler := handler.NewStreamHandler(wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		ChatController:         controller.NewChatController(chatService),
		ImageController:        controller.NewImageController(imageService),
		WebhookController:      controller.NewWebhookController(webhookService),
		SpeechController:       controller.NewSpeechController(speechService),
		VoiceController:        controller.NewVoiceController(voiceService),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService),
		UsageController:        controller.NewUsageController(usageService),
		ProjectController:      controller.NewProjectController(projectService),
		FavoriteController:     controller.NewFavoriteController(favoriteService),
		AccountController:      controller.NewAccountController(accountService),

		WorkerService: workerService,
		StreamHandler: streamHandler,
		WebSocketHub:  wsHub,
	}
}
