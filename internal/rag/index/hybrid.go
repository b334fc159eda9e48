package index

import (
	"context"
	"errors"
	"os"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// hybridStore pairs the dense and sparse legs behind the one Store the rest
// of the pipeline sees. Both legs receive every chunk; each search mode
// reads only its own leg.
type hybridStore struct {
	vector  *vectorIndex
	keyword *keywordIndex
	logger  *logger_i.Logger
}

func NewStore(ctx context.Context) (Store, error) {
	vector := getQdrantClient(ctx)
	if vector == nil {
		return nil, errors.New("vector index unavailable")
	}

	keyword, err := newKeywordIndex(keywordIndexPath())
	if err != nil {
		return nil, err
	}

	return &hybridStore{
		vector:  vector,
		keyword: keyword,
		logger:  logger_i.NewLogger("Index"),
	}, nil
}

func (s *hybridStore) EnsureReady(ctx context.Context) error {
	if err := s.vector.ensureCollection(ctx); err != nil {
		return err
	}
	return s.keyword.ensureSchema(ctx)
}

func (s *hybridStore) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if err := s.vector.upsertBatch(ctx, chunks, vectors); err != nil {
		return err
	}
	return s.keyword.upsertBatch(ctx, chunks)
}

func (s *hybridStore) KeywordSearch(ctx context.Context, query string, limit int) ([]Hit, error) {
	return s.keyword.search(ctx, query, limit)
}

func (s *hybridStore) VectorSearch(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	return s.vector.search(ctx, vector, limit)
}

func (s *hybridStore) Close() error {
	return s.keyword.close()
}

func keywordIndexPath() string {
	if path := os.Getenv("KEYWORD_INDEX_PATH"); path != "" {
		return path
	}
	return config.KeywordIndexPath
}
