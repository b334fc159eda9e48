package embedding

import "context"

// Embedder turns text into fixed-dimension vectors. GetEmbedding is for
// query text, BatchEmbedding for document chunks; the two use different
// retrieval task hints but the same vector space.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
