package jobModel

import (
	"context"
	"time"

	"github.com/avuppal/driveRAG/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit    InternalStatus = "Init"
	CacheCall        InternalStatus = "CacheCall"
	RAGCall          InternalStatus = "RAG"
	LLMCall          InternalStatus = "LLM"
	RetrievalCall    InternalStatus = "Retrieval"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Query  *commonModels.QueryContext `json:"query,omitempty"`
	Answer *commonModels.QueryAnswer  `json:"answer,omitempty"`

	IngestFolderURL string `json:"ingest_folder_url,omitempty"`
	IngestFileName  string `json:"ingest_file_name,omitempty"`
	IngestURL       string `json:"ingest_url,omitempty"`

	IngestReport []commonModels.ExtractionResult `json:"ingest_report,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// AnswerCache is the injected query-result cache, keyed by a content hash
// of the QueryContext. A miss is (zero value, false), never an error.
type AnswerCache interface {
	Get(ctx context.Context, key string) (commonModels.QueryAnswer, bool)
	Put(ctx context.Context, key string, answer commonModels.QueryAnswer) error
}
