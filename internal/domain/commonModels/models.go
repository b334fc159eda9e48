package commonModels

import "time"

type Document struct {
	Id                  string    `json:"source_doc_id"`
	Name                string    `json:"doc_name"`
	SourceURL           string    `json:"source_url,omitempty"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

type DocMetadata struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// Page is the result of extracting one page of a source document.
// Immutable once produced. If OCRUsed is set, OriginalCharCount holds the
// length of the native text layer that fell below the OCR threshold.
type Page struct {
	Index             int    `json:"page"`
	Text              string `json:"text"`
	CharCount         int    `json:"char_count"`
	OCRUsed           bool   `json:"ocr_used"`
	OriginalCharCount int    `json:"original_char_count"`
	OCRError          string `json:"ocr_error,omitempty"`
	Error             string `json:"error,omitempty"`
}

// ExtractionResult is the per-file ingestion outcome handed back to the
// surrounding service. A document with no extractable text is still a
// success with empty Text; Success is false only when the file itself
// could not be processed.
type ExtractionResult struct {
	FileId        string      `json:"file_id,omitempty"`
	Filename      string      `json:"filename"`
	Success       bool        `json:"success"`
	Text          string      `json:"text"`
	PageCount     int         `json:"page_count"`
	CharCount     int         `json:"char_count"`
	WordCount     int         `json:"word_count"`
	OCRPagesCount int         `json:"ocr_pages_count"`
	Pages         []Page      `json:"pages,omitempty"`
	Metadata      DocMetadata `json:"metadata"`
	ChunkCount    int         `json:"chunk_count"`
	Error         string      `json:"error,omitempty"`
}

type DocChunk struct {
	Doc        Document `json:"doc"`
	ChunkId    string   `json:"chunk_id"`
	Chunk      string   `json:"content"`
	TokenCount int      `json:"token_count"`
	PageStart  int      `json:"page_start"`
	PageEnd    int      `json:"page_end"`
	ChunkIndex int      `json:"chunk_index"`
}

type SearchMode string

const (
	SearchModeKeyword SearchMode = "keyword"
	SearchModeVector  SearchMode = "vector"
	SearchModeHybrid  SearchMode = "hybrid"
)

// QueryContext carries one query through the retrieval pipeline.
// Created per request, discarded with the response.
type QueryContext struct {
	Question string     `json:"question"`
	Mode     SearchMode `json:"mode"`
	Size     int        `json:"size"`
	RRFK     int        `json:"rrf_k"`
	UseLLM   bool       `json:"use_llm"`
}

const (
	GenerationLLM      = "llm_generated"
	GenerationFallback = "fallback"
)

// QueryAnswer is the result of one query: answer text, the distinct source
// filenames that were actually placed in the grounding context, and how the
// answer text was produced.
type QueryAnswer struct {
	Answer           string   `json:"answer"`
	Citations        []string `json:"citations"`
	SourcesUsed      int      `json:"sources_used"`
	GenerationMethod string   `json:"generation_method"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"
