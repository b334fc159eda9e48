package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type QueryResponse struct {
	Question         string   `json:"question"`
	Answer           string   `json:"answer"`
	Citations        []string `json:"citations"`
	SourcesUsed      int      `json:"sources_used"`
	GenerationMethod string   `json:"generation_method"`
}

type FileResult struct {
	Filename      string       `json:"filename"`
	Success       bool         `json:"success"`
	PageCount     int          `json:"page_count"`
	CharCount     int          `json:"char_count"`
	WordCount     int          `json:"word_count"`
	OCRPagesCount int          `json:"ocr_pages_count"`
	ChunkCount    int          `json:"chunk_count"`
	Pages         []PageResult `json:"pages,omitempty"`
	Error         string       `json:"error,omitempty"`
}

type PageResult struct {
	Page              int    `json:"page"`
	Text              string `json:"text"`
	CharCount         int    `json:"char_count"`
	OCRUsed           bool   `json:"ocr_used"`
	OriginalCharCount int    `json:"original_char_count"`
	OCRError          string `json:"ocr_error,omitempty"`
	Error             string `json:"error,omitempty"`
}

type Result struct {
	Status        string         `json:"status"`
	QueryResponse *QueryResponse `json:"query_response,omitempty"`
	IngestReport  []FileResult   `json:"ingest_report,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type QueryRequest struct {
	Question string `json:"question" validate:"required"`
	Mode     string `json:"mode,omitempty" example:"hybrid"`
	Size     int    `json:"size,omitempty" example:"5"`
	RRFK     int    `json:"rrf_k,omitempty" example:"60"`
	UseLLM   *bool  `json:"use_llm,omitempty"` //defaults to true when omitted
}

type IngestFolderRequest struct {
	FolderURL string `json:"folder_url" validate:"required"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
