package bootstrap

import (
	"log"

	"synaptiq-be/internal/config"
	"synaptiq-be/internal/controller"
	"synaptiq-be/internal/pkg/logger"
	"synaptiq-be/internal/repository/implementation"
	"synaptiq-be/internal/repository/memory"
	"synaptiq-be/internal/repository/unitofwork"
	"synaptiq-be/internal/service"
	"synaptiq-be/pkg/embedding"
	"synaptiq-be/pkg/ingest"
	"synaptiq-be/pkg/llm/factory"
	"synaptiq-be/pkg/mindmap"
	"synaptiq-be/pkg/rag/orchestrator"
	"synaptiq-be/pkg/rag/retriever"
	"synaptiq-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	ChatController    controller.IChatController
	MessageController controller.IMessageController
	FileController    controller.IFileController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Logger (exposed for the server error handler)
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

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

	// 4. RAG Engine
	fragmentRepository := implementation.NewFragmentRepository(db)
	ragRetriever := retriever.NewWithTopK(embeddingProvider, fragmentRepository, cfg.Ai.RetrievalTopK)
	searchClient := websearch.NewTavilyClient(cfg.Keys.Tavily)
	ragOrchestrator := orchestrator.New(llmProvider, ragRetriever, searchClient)

	ingestor := ingest.NewIngestor(embeddingProvider)
	generator := mindmap.NewGenerator(llmProvider)
	chatLocks := memory.NewChatLockRegistry()

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.PurgeTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.PurgeTopic, uowFactory, sysLogger)

	sessionService := service.NewSessionService(uowFactory, publisherService, ingestor, generator, chatLocks, cfg.App.UploadDir, sysLogger)
	chatService := service.NewChatService(uowFactory, ragOrchestrator, chatLocks, sysLogger)
	messageService := service.NewMessageService(uowFactory, ragOrchestrator, chatLocks, sysLogger)
	fileService := service.NewFileService(uowFactory, cfg.App.UploadDir, sysLogger)

	// 6. Controllers
	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		ChatController:    controller.NewChatController(chatService),
		MessageController: controller.NewMessageController(messageService),
		FileController:    controller.NewFileController(fileService),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
