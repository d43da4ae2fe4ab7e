package bootstrap

import (
	"context"
	"log"

	"ai-notecapture-be/internal/config"
	"ai-notecapture-be/internal/controller"
	"ai-notecapture-be/internal/handler"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/internal/repository/contract"
	"ai-notecapture-be/internal/repository/implementation"
	"ai-notecapture-be/internal/repository/memory"
	"ai-notecapture-be/internal/service"
	"ai-notecapture-be/internal/websocket"
	"ai-notecapture-be/pkg/calendar"
	"ai-notecapture-be/pkg/database"
	"ai-notecapture-be/pkg/discovery"
	"ai-notecapture-be/pkg/llm/factory"

	pktNats "ai-notecapture-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	CaptureController  controller.ICaptureController
	NoteController     controller.INoteController
	DiscoverController controller.IDiscoverController
	CalendarController controller.ICalendarController

	// Background services, started by main.go
	NoteRepository  *implementation.NoteRepositoryImpl
	CaptureService  service.ICaptureService
	ConsumerService service.IConsumerService

	// Discover feed
	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub

	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	Logger  *logger.ZapLogger
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 1. Storage
	blobs := NewBlobRepository(cfg)
	noteRepo := implementation.NewNoteRepository(blobs)
	tokenRepo := implementation.NewCalendarTokenRepository(blobs)
	relatedRepo := memory.NewRelatedNotesRepository()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI
	aiParams := factory.Params{
		Provider:           cfg.Ai.LLMProvider,
		APIKey:             cfg.Keys.AI,
		BaseURL:            cfg.Ai.BaseURL,
		Model:              cfg.Ai.Model,
		TranscriptionModel: cfg.Ai.TranscriptionModel,
		OllamaBaseURL:      cfg.Ai.OllamaBaseURL,
		OllamaModel:        cfg.Ai.OllamaModel,
		RateLimitRPS:       cfg.Ai.RateLimitRPS,
	}
	llmProvider, err := factory.NewLLMProvider(aiParams)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.Model)

	structuringService := service.NewStructuringService(
		llmProvider,
		factory.NewTranscriber(aiParams),
		sysLogger,
		service.WithMaxTokens(cfg.Ai.MaxTokens),
	)

	// 4. NATS
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}

	// 5. WebSocket Hub
	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	wsHub := websocket.NewHub(feedLogger)
	feedHandler := handler.NewFeedHandler(wsHub, cfg.App.JWTSecret, feedLogger)
	if natsSub != nil {
		if err := feedHandler.StartRelay(natsSub); err != nil {
			log.Printf("[WARN] Failed to start discover feed relay: %v", err)
		}
	}

	// 6. Services
	deps := service.CaptureDeps{
		Feed:        wsHub,
		Relatedness: service.NewPublisherService(cfg.App.RelatednessTopicName, pubSub),
	}
	if natsPub != nil {
		deps.Events = natsPub
	}

	var calendarAdapter service.CalendarAdapter
	if cfg.Calendar.Enabled {
		adapter := calendar.NewAdapter(
			tokenRepo,
			sysLogger,
			calendar.WithOAuthClient(cfg.Keys.GoogleClientID, cfg.Keys.GoogleClientSecret),
			calendar.WithCalendarID(cfg.Calendar.CalendarID),
			calendar.WithTimeZone(cfg.Calendar.TimeZone),
		)
		calendarAdapter = adapter
		deps.Calendar = adapter
	}

	captureService := service.NewCaptureService(
		noteRepo,
		structuringService,
		discovery.NewEngine(),
		relatedRepo,
		sysLogger,
		deps,
	)
	calendarService := service.NewCalendarService(calendarAdapter, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.RelatednessTopicName,
		noteRepo,
		structuringService,
		relatedRepo,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		CaptureController:  controller.NewCaptureController(captureService),
		NoteController:     controller.NewNoteController(captureService),
		DiscoverController: controller.NewDiscoverController(captureService),
		CalendarController: controller.NewCalendarController(calendarService),

		NoteRepository:  noteRepo,
		CaptureService:  captureService,
		ConsumerService: consumerService,

		FeedHandler:  feedHandler,
		WebSocketHub: wsHub,

		natsPub: natsPub,
		natsSub: natsSub,
		Logger:  sysLogger,
	}
}

// NewBlobRepository picks the store for the note collection and the calendar
// token. An unreachable backend is fatal.
func NewBlobRepository(cfg *config.Config) contract.BlobRepository {
	switch cfg.Storage.Driver {
	case "postgres":
		gormDB, err := database.NewGormDBFromDSN(cfg.Storage.Connection)
		if err != nil {
			log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
		}
		log.Printf("[INFO] Using storage driver: postgres")
		return implementation.NewBlobRepository(gormDB)

	case "redis":
		opt, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.Storage.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("[FATAL] Failed to connect to Redis: %v", err)
		}
		log.Printf("[INFO] Using storage driver: redis")
		return implementation.NewRedisBlobRepository(rdb)

	default:
		log.Printf("[INFO] Using storage driver: memory (notes are lost on restart)")
		return memory.NewBlobRepository()
	}
}

// Close releases the bus connections and flushes the logger.
func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	_ = c.Logger.Sync()
}
