package index

import (
	"context"

	"github.com/avuppal/driveRAG/internal/domain/commonModels"
)

// Hit is one ranked search result from either index leg. Score is
// higher-is-better regardless of the backing engine's native convention.
type Hit struct {
	ChunkID  string  `json:"chunk_id"`
	Filename string  `json:"filename"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
}

// Store is the document index: chunk persistence plus the two search legs
// the retriever fuses. Inserted chunks become visible to searches eventually,
// no stronger guarantee is assumed.
type Store interface {
	EnsureReady(ctx context.Context) error
	UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	KeywordSearch(ctx context.Context, query string, limit int) ([]Hit, error)
	VectorSearch(ctx context.Context, vector []float32, limit int) ([]Hit, error)
	Close() error
}
