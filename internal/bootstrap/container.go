package bootstrap

import (
	"log"

	"course-assistant-be/internal/config"
	"course-assistant-be/internal/controller"
	"course-assistant-be/internal/pkg/logger"
	"course-assistant-be/internal/repository/contract"
	"course-assistant-be/internal/repository/implementation"
	"course-assistant-be/internal/repository/memory"
	"course-assistant-be/internal/service"
	"course-assistant-be/pkg/embedding"
	"course-assistant-be/pkg/llm/factory"
	"course-assistant-be/pkg/rag/chunker"
	"course-assistant-be/pkg/rag/executor"
	"course-assistant-be/pkg/rag/search"
	"course-assistant-be/pkg/rag/session"

	pktNats "course-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	IngestionService service.IIngestionService
}

// NewContainer wires the whole dependency graph. db may be nil when the
// in-memory vector store is configured.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Anthropic,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Storage
	var chunkRepo contract.ChunkRepository
	if cfg.Rag.VectorStore == "memory" || db == nil {
		chunkRepo = memory.NewChunkRepository()
		log.Printf("[INFO] Using Vector Store: MEMORY")
	} else {
		chunkRepo = implementation.NewChunkRepository(db)
		log.Printf("[INFO] Using Vector Store: PGVECTOR")
	}

	sessionRepo := memory.NewSessionRepository()
	sessionManager := session.NewManager(sessionRepo, cfg.Rag.MaxHistory)

	// 5. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 6. RAG Components
	splitter := chunker.New(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap)
	searchOrchestrator := search.NewOrchestrator(chunkRepo, embeddingProvider, sysLogger)
	searchConfig := search.Config{
		TopK:      cfg.Rag.MaxResults,
		Threshold: cfg.Rag.SearchThreshold,
	}
	loop := executor.NewLoop(llmProvider, sysLogger, cfg.Rag.MaxToolRounds, cfg.Rag.ModelRetries)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	ingestionService := service.NewIngestionService(
		chunkRepo,
		embeddingProvider,
		publisherService,
		natsPub,
		splitter,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		ingestionService,
		sysLogger,
	)

	assistantService := service.NewAssistantService(
		chunkRepo,
		sessionManager,
		searchOrchestrator,
		searchConfig,
		loop,
		natsPub,
		sysLogger,
	)

	// 8. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),

		ConsumerService:  consumerService,
		IngestionService: ingestionService,
	}
}
