package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/domain/jobModel"
	"github.com/avuppal/driveRAG/internal/metrics"
	"github.com/avuppal/driveRAG/internal/rag/index"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// cacheKey hashes everything that shapes an answer; two requests share a
// cache entry only when all of it matches.
func cacheKey(query commonModels.QueryContext) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d|%t",
		query.Question, query.Mode, query.Size, query.RRFK, query.UseLLM)))
	return hex.EncodeToString(sum[:])
}

func returnOutput(job jobModel.Job, answer commonModels.QueryAnswer) jobModel.Job {
	job.JobPayload.Answer = &answer
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, key string) (commonModels.QueryAnswer, bool) {
	*job = logOutput(*job, jobModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	answer, found := s.answerCache.Get(ctx, key)
	metrics.CountAnswerCacheLookup(found)
	return answer, found
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, query commonModels.QueryContext) ([]index.Hit, error) {
	*job = logOutput(*job, jobModel.RetrievalCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	return s.retriever.Retrieve(ctx, query)
}

func (s *service) executeSynthesisStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, query commonModels.QueryContext, hits []index.Hit) commonModels.QueryAnswer {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("answer_synthesis", time.Since(start)) }()

	return s.synthesizer.Synthesize(ctx, query, hits)
}
