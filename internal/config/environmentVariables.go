package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = false //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	NoAuthBypass                    = true //local dev only

	//extraction
	//pages whose native text layer yields fewer characters than this get the OCR pass
	OCRCharThreshold   = 50
	OCRRasterScale     = 2.0 //linear scale for the page raster handed to tesseract
	PageExtractTimeout = 10 * time.Second

	//chunking
	ChunkTargetTokens  = 500
	ChunkMaxTokens     = 600 //hard ceiling, chunks above this are split further
	ChunkOverlapTokens = 50
	ChunkBoundarySlack = 80 //tokens we are willing to give back to land on a sentence break
	TokenEncoding      = "cl100k_base"

	//retrieval
	DefaultResultSize  = 5
	DefaultRRFK        = 60
	MaxOverfetch       = 50 //cap on the per-mode candidate window
	ContextTokenBudget = 3000

	//ingestion
	IngestParallelism = 4 //documents processed concurrently within one ingest job
	EmbedBatchSize    = 100

	EmbeddingOutputDimensionality int32 = 1536
	EmbeddingDBName                     = "drive-rag-chunks"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//job execution deadlines, ingestion covers OCR and embedding batches
	QueryJobTimeout  = 90 * time.Second
	IngestJobTimeout = 15 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//keyword index
	KeywordIndexPath = "keyword_index.db"

	//llm
	LLMGenerateTimeout = 30 * time.Second
	GeminiModelName    = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIModelName    = "gpt-4o-mini"

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"

	ModelTemperature float32 = 0.3
	ModelContext             = "You are a document assistant. Answer using ONLY the information from the provided documents. If the answer is not found in the documents, say so."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//drive download
	DriveRequestTimeout = 60 * time.Second
	MaxFolderFiles      = 20

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisJobStore    = 0
	RedisAnswerCache = 2

	//redis timeouts
	RedisJobStoreTTL    = 24 * time.Hour
	RedisAnswerCacheTTL = 6 * time.Hour
)

var (
	AuthToken       = os.Getenv("API_AUTH_TOKEN")
	GeminiAPIKey    = os.Getenv("GEMINI_API_KEY")
	OpenAIAPIKey    = os.Getenv("OPENAI_API_KEY")
	LLMProviderName = os.Getenv("LLM_PROVIDER") //"gemini" (default) or "openai"
)
