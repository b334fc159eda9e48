package rag

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/domain/jobModel"
	"github.com/avuppal/driveRAG/internal/drive"
	"github.com/avuppal/driveRAG/internal/metrics"
	"github.com/avuppal/driveRAG/internal/rag/embedding"
	"github.com/avuppal/driveRAG/internal/rag/extract"
	"github.com/avuppal/driveRAG/internal/rag/index"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// Service is what the worker calls. It hides the index, the embedder and
// the model providers behind two job-shaped operations.
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocuments(ctx context.Context, job jobModel.Job) jobModel.Job
}

// The collaborators are taken as interfaces so tests can swap them without
// touching the wiring in main.
type QueryRetriever interface {
	Retrieve(ctx context.Context, query commonModels.QueryContext) ([]index.Hit, error)
}

type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, query commonModels.QueryContext, hits []index.Hit) commonModels.QueryAnswer
}

type DocExtractor interface {
	ExtractDocument(ctx context.Context, file extract.SourceFile) commonModels.ExtractionResult
}

type DocChunker interface {
	ChunkDocument(doc commonModels.Document, pages []commonModels.Page) []commonModels.DocChunk
}

type service struct {
	store       index.Store
	retriever   QueryRetriever
	synthesizer AnswerSynthesizer
	embedder    embedding.Embedder
	extractor   DocExtractor
	chunker     DocChunker
	answerCache jobModel.AnswerCache
	downloader  drive.Downloader
	logger      *logger_i.Logger
}

type ServiceConfig struct {
	Store       index.Store
	Retriever   QueryRetriever
	Synthesizer AnswerSynthesizer
	Embedder    embedding.Embedder
	Extractor   DocExtractor
	Chunker     DocChunker
	AnswerCache jobModel.AnswerCache
	Downloader  drive.Downloader
}

func NewService(cfg ServiceConfig) Service {
	return &service{
		store:       cfg.Store,
		retriever:   cfg.Retriever,
		synthesizer: cfg.Synthesizer,
		embedder:    cfg.Embedder,
		extractor:   cfg.Extractor,
		chunker:     cfg.Chunker,
		answerCache: cfg.AnswerCache,
		downloader:  cfg.Downloader,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	jobt.CurrentStep = jobModel.RAGCall

	query := jobt.JobPayload.Query
	if query == nil {
		return s.jobError(jobt, errors.New("query job without a query payload"), "INVALID_JOB", false)
	}

	key := cacheKey(*query)
	if cached, found := s.executeCacheCheckStep(processContext, inMethodLogger, &jobt, key); found {
		return returnOutput(jobt, cached)
	}

	hits, err := s.executeRetrievalStep(processContext, inMethodLogger, &jobt, *query)
	if err != nil {
		return s.jobError(jobt, err, "RETRIEVAL_FAILURE", true)
	}

	answer := s.executeSynthesisStep(processContext, inMethodLogger, &jobt, *query, hits)

	//Background cache save
	go func() {
		if err := s.answerCache.Put(ctx, key, answer); err != nil {
			s.logger.Error("Failed to save to answer cache", "error", err)
		}
	}()

	return returnOutput(jobt, answer)
}

func (s *service) IngestDocuments(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)
	job.CurrentStep = jobModel.IngestProcessing

	if err := s.store.EnsureReady(ctx); err != nil {
		return s.jobError(job, err, "INDEX_UNAVAILABLE", true)
	}

	files, err := s.gatherFiles(ctx, job)
	if err != nil {
		return s.jobError(job, err, "INGEST_FETCH_FAILURE", true)
	}
	inMethodLogger.Info("ingesting files", "count", len(files))

	results := s.ingestAll(ctx, files)
	job.JobPayload.IngestReport = results

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	if succeeded == 0 && len(results) > 0 {
		return s.jobError(job, errors.New("every document in the batch failed"), "INGESTION_FAILURE", true)
	}

	job.CurrentStep = jobModel.Complete
	return job
}

// gatherFiles resolves the job's source: a shared folder link, or a single
// file already staged on local disk by the upload handler.
func (s *service) gatherFiles(ctx context.Context, job jobModel.Job) ([]extract.SourceFile, error) {
	if job.JobPayload.IngestFolderURL != "" {
		return s.downloader.FetchFolder(ctx, job.JobPayload.IngestFolderURL)
	}

	if job.JobPayload.IngestURL == "" {
		return nil, errors.New("ingest job names neither a folder nor a staged file")
	}
	data, err := os.ReadFile(job.JobPayload.IngestURL)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(job.JobPayload.IngestURL); err != nil {
		s.logger.Error("Error removing staged file", "error", err)
	}
	return []extract.SourceFile{{Name: job.JobPayload.IngestFileName, Data: data}}, nil
}

// ingestAll runs the per-document pipelines concurrently, bounded by
// IngestParallelism. Results stay index-aligned with the input files.
func (s *service) ingestAll(ctx context.Context, files []extract.SourceFile) []commonModels.ExtractionResult {
	results := make([]commonModels.ExtractionResult, len(files))
	sem := make(chan struct{}, config.IngestParallelism)
	var wg sync.WaitGroup

	for i, f := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, f extract.SourceFile) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.ingestOne(ctx, f)
		}(i, f)
	}
	wg.Wait()
	return results
}

// ingestOne is the extract -> chunk -> embed -> index pipeline for a single
// document. Failures land in the result, never abort the batch.
func (s *service) ingestOne(ctx context.Context, file extract.SourceFile) commonModels.ExtractionResult {
	result := s.extractor.ExtractDocument(ctx, file)
	metrics.CountOCRPages(result.OCRPagesCount)
	if !result.Success {
		metrics.CountDocumentIngested(false)
		return result
	}

	doc := commonModels.Document{
		Id:                  docID(file),
		Name:                file.Name,
		LastIngestTimestamp: time.Now(),
		ContentType:         extract.DocTypeOf(file.Name),
	}

	chunks := s.chunker.ChunkDocument(doc, result.Pages)
	result.ChunkCount = len(chunks)
	if len(chunks) == 0 {
		// blank document: nothing to index, still a successful ingest
		metrics.CountDocumentIngested(true)
		return result
	}

	if err := s.indexChunks(ctx, chunks); err != nil {
		s.logger.Error("indexing failed", "filename", file.Name, "error", err)
		result.Success = false
		result.Error = err.Error()
		metrics.CountDocumentIngested(false)
		return result
	}

	metrics.CountChunksIndexed(len(chunks))
	metrics.CountDocumentIngested(true)
	return result
}

// indexChunks embeds and upserts in EmbedBatchSize batches.
func (s *service) indexChunks(ctx context.Context, chunks []commonModels.DocChunk) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunk_indexing", time.Since(start)) }()

	for i := 0; i < len(chunks); i += config.EmbedBatchSize {
		end := i + config.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Chunk
		}

		vectors, err := s.embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return err
		}
		if err := s.store.UpsertBatch(ctx, batch, vectors); err != nil {
			return err
		}
	}
	return nil
}

// docID keeps re-ingestion of the same source deterministic: drive files
// carry their own id, uploads derive one from the filename.
func docID(file extract.SourceFile) string {
	if file.Id != "" {
		return file.Id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(file.Name)).String()
}
