// @title           Drive RAG API
// @version         1.0
// @description     This API handles asynchronous document ingestion and RAG queries
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/data/store"
	jobmodel "github.com/avuppal/driveRAG/internal/domain/jobModel"
	"github.com/avuppal/driveRAG/internal/drive"
	"github.com/avuppal/driveRAG/internal/handlers"
	"github.com/avuppal/driveRAG/internal/job"
	"github.com/avuppal/driveRAG/internal/mcpserver"
	"github.com/avuppal/driveRAG/internal/rag"
	"github.com/avuppal/driveRAG/internal/rag/chunker"
	"github.com/avuppal/driveRAG/internal/rag/embedding/googleEmbedding"
	"github.com/avuppal/driveRAG/internal/rag/extract"
	"github.com/avuppal/driveRAG/internal/rag/extract/ocr"
	"github.com/avuppal/driveRAG/internal/rag/index"
	"github.com/avuppal/driveRAG/internal/rag/llm"
	"github.com/avuppal/driveRAG/internal/rag/llm/gemini"
	"github.com/avuppal/driveRAG/internal/rag/llm/openaillm"
	"github.com/avuppal/driveRAG/internal/rag/retriever"
	"github.com/avuppal/driveRAG/internal/rag/synth"
	"github.com/avuppal/driveRAG/internal/server"
	"github.com/avuppal/driveRAG/internal/worker"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil {
		logger.Error("Redis job store is offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	var answerCache jobmodel.AnswerCache
	if redisCache := store.GetRedisAnswerCache(serviceContext); redisCache != nil {
		answerCache = redisCache
	} else {
		logger.Error("Redis answer cache is offline")
		answerCache = store.InitInMemoryAnswerCache()
	}

	hybridIndex, err := index.NewStore(serviceContext)
	if err != nil {
		logger.Error("Index is unavailable. Shutting down.", "error", err)
		return
	}

	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GeminiAPIKey)
	llmProvider := pickLLMProvider(serviceContext, logger)

	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	docChunker, err := chunker.New()
	if err != nil {
		logger.Error("Tokenizer failed to initialize. Shutting down.", "error", err)
		return
	}
	synthesizer, err := synth.New(llmProvider)
	if err != nil {
		logger.Error("Synthesizer failed to initialize. Shutting down.", "error", err)
		return
	}
	queryRetriever := retriever.New(hybridIndex, embeddingService)

	ragService := rag.NewService(rag.ServiceConfig{
		Store:       hybridIndex,
		Retriever:   queryRetriever,
		Synthesizer: synthesizer,
		Embedder:    embeddingService,
		Extractor:   extract.New(ocr.NewTesseractEngine()),
		Chunker:     docChunker,
		AnswerCache: answerCache,
		Downloader:  drive.NewClient(),
	})

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	mcpServer := mcpserver.NewServer(queryRetriever, synthesizer)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcpServer.HTTPHandler())

	<-stopExecution
	logger.Info("Server stopped")
}

func pickLLMProvider(ctx context.Context, logger *logger_i.Logger) llm.Provider {
	if config.LLMProviderName == "openai" {
		logger.Info("Using OpenAI as the LLM provider")
		return openaillm.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey)
	}
	return gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GeminiAPIKey)
}
