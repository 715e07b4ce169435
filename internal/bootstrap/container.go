package bootstrap

import (
	"context"
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/pkg/lock"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/mailer"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/rag"
	"ai-assistant-be/pkg/rag/history"
	"ai-assistant-be/pkg/tools"

	pkgNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	InstructionController  controller.IInstructionController
	TaskController         controller.ITaskController
	ChatController         controller.IChatController
	EventController        controller.IEventController
	DocumentController     controller.IDocumentController
	NotificationController controller.INotificationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
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

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding Provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
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
	taskLock := lock.NewTaskLock(rdb, 0)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// In-memory rule cache for the proactive matcher
	instructionCache := memory.NewInstructionCache()

	// Tool registry: everything a task step is allowed to do
	connector := tools.NewConnector(cfg.Gateway.BaseURL, cfg.Gateway.ApiKey)
	reminderScheduler := service.NewReminderScheduler(natsPub, wsHub, sysLogger)
	registry := tools.NewRegistry()
	tools.RegisterBuiltins(registry, emailService, wsHub, reminderScheduler, connector)

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedDocumentTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedDocumentTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	retriever := rag.NewRetriever(uowFactory, embeddingProvider)
	historyLoader := history.NewLoader(uowFactory)

	authService := service.NewAuthService(uowFactory)
	documentService := service.NewDocumentService(uowFactory, publisherService)
	taskService := service.NewTaskService(
		uowFactory,
		llmProvider,
		registry,
		taskLock,
		wsHub,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		retriever,
		historyLoader,
		cfg.Assistant.RelevanceThreshold,
	)
	proactiveService := service.NewProactiveService(
		uowFactory,
		instructionCache,
		taskService,
		cfg.Assistant.ProactiveThreshold,
		sysLogger,
	)
	instructionService := service.NewInstructionService(
		uowFactory,
		taskService,
		chatService,
		instructionCache,
	)

	// External events flow through JetStream so a restart cannot drop them.
	// Rule evaluation itself never fails the delivery; a bad envelope is
	// logged and acked rather than redelivered forever.
	if natsSub != nil {
		err := natsSub.Subscribe("events.>", "assistant-core", func(ctx context.Context, event events.Event) error {
			external, ok := externalEventFromBus(event)
			if !ok {
				sysLogger.Warn("EventBus", "Dropping event without a valid user_id", map[string]interface{}{
					"event_type": event.EventType(),
				})
				return nil
			}
			proactiveService.HandleEvent(ctx, external)
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to external events: %v", err)
		}
	}

	// 4. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		InstructionController:  controller.NewInstructionController(instructionService),
		TaskController:         controller.NewTaskController(taskService),
		ChatController:         controller.NewChatController(chatService),
		EventController:        controller.NewEventController(proactiveService, natsPub),
		DocumentController:     controller.NewDocumentController(documentService),
		NotificationController: controller.NewNotificationController(wsHub, wsLogger),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}

// externalEventFromBus rebuilds the typed event from the wire payload. The
// publisher flattens user_id and event_type into the payload map; both are
// stripped again so rule matching only sees the source data.
func externalEventFromBus(event events.Event) (events.ExternalEvent, bool) {
	payload := event.Payload()

	rawUserId, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		return events.ExternalEvent{}, false
	}

	data := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if k == "user_id" || k == "event_type" {
			continue
		}
		data[k] = v
	}

	return events.ExternalEvent{
		Type:       event.EventType(),
		UserId:     userId,
		Data:       data,
		OccurredAt: event.Timestamp(),
	}, true
}
