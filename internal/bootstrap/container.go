package bootstrap

import (
	"context"
	"log"
	"time"

	"deck-align-be/internal/config"
	"deck-align-be/internal/controller"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/memory"
	redisrepo "deck-align-be/internal/repository/redis"
	"deck-align-be/internal/repository/unitofwork"
	"deck-align-be/internal/service"
	"deck-align-be/pkg/embedding"
	"deck-align-be/pkg/llm/factory"

	pkgNats "deck-align-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AlignmentController controller.IAlignmentController
	DeckController      controller.IDeckController
	LectureController   controller.ILectureController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger        logger.ILogger
	NatsPublisher *pkgNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	// The per-slide trace is chatty; it goes to its own file.
	alignLogger := logger.NewIsolatedLogger("logs/alignment_engine.log")

	// 2. Internal event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	llmProvider, err := factory.NewProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.GoogleGeminiKey,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	var embeddingProvider embedding.Provider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions)
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions)
	}

	// 4. Outbound event bus (NATS). Optional, the service degrades to
	// logging when it is down.
	var eventBus service.EventPublisher
	natsPublisher, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("bootstrap", "NATS unavailable, events disabled", map[string]interface{}{"error": err.Error()})
	} else {
		eventBus = natsPublisher
	}

	// 5. Progress snapshot stores
	progressCache := memory.NewProgressCache()
	var progressStore *redisrepo.ProgressStore
	if opts, err := redis.ParseURL(cfg.App.RedisURL); err == nil {
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err == nil {
			progressStore = redisrepo.NewProgressStore(client)
		} else {
			sysLogger.Warn("bootstrap", "Redis unavailable, progress mirroring disabled", map[string]interface{}{"error": err.Error()})
		}
	}

	// 6. Services
	publisherService := service.NewPublisherService(pubSub)
	alignmentService := service.NewAlignmentService(
		uowFactory,
		llmProvider,
		publisherService,
		eventBus,
		progressCache,
		progressStore,
		alignLogger,
		cfg.Topics.RunAlignment,
		cfg.Topics.EnrichCardConcept,
		cfg.Alignment.BatchSize,
		time.Duration(cfg.Alignment.BatchDelaySeconds)*time.Second,
	)
	deckService := service.NewDeckService(uowFactory, eventBus, sysLogger)
	lectureService := service.NewLectureService(uowFactory, sysLogger)
	enrichmentService := service.NewEnrichmentService(uowFactory, embeddingProvider, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.RunAlignment,
		cfg.Topics.EnrichCardConcept,
		alignmentService,
		enrichmentService,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		AlignmentController: controller.NewAlignmentController(alignmentService),
		DeckController:      controller.NewDeckController(deckService),
		LectureController:   controller.NewLectureController(lectureService),
		ConsumerService:     consumerService,
		Logger:              sysLogger,
		NatsPublisher:       natsPublisher,
	}
}
