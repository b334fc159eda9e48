package retriever

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/rag/embedding"
	"github.com/avuppal/driveRAG/internal/rag/index"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// Retriever answers one QueryContext with a ranked list of chunks. In hybrid
// mode the two index legs run concurrently and are fused; a single failed leg
// degrades to the surviving one instead of failing the query.
type Retriever struct {
	store    index.Store
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

func New(store index.Store, embedder embedding.Embedder) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		logger:   logger_i.NewLogger("Retriever"),
	}
}

// overfetchWindow is the per-leg candidate count: wider than the requested
// size so fusion has material to reorder, capped to keep the legs bounded.
func overfetchWindow(size int) int {
	window := size * 3
	if window > config.MaxOverfetch {
		window = config.MaxOverfetch
	}
	if window < size {
		window = size
	}
	return window
}

func (r *Retriever) Retrieve(ctx context.Context, query commonModels.QueryContext) ([]index.Hit, error) {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	size := query.Size
	if size <= 0 {
		size = config.DefaultResultSize
	}
	k := query.RRFK
	if k <= 0 {
		k = config.DefaultRRFK
	}

	switch query.Mode {
	case commonModels.SearchModeKeyword:
		hits, err := r.store.KeywordSearch(ctx, query.Question, size)
		if err != nil {
			return nil, fmt.Errorf("keyword retrieval failed: %w", err)
		}
		return hits, nil

	case commonModels.SearchModeVector:
		hits, err := r.vectorLeg(ctx, query.Question, size)
		if err != nil {
			return nil, fmt.Errorf("vector retrieval failed: %w", err)
		}
		return hits, nil

	case commonModels.SearchModeHybrid, "":
		return r.hybrid(ctx, log, query.Question, size, k)

	default:
		return nil, fmt.Errorf("unknown search mode %q", query.Mode)
	}
}

func (r *Retriever) vectorLeg(ctx context.Context, question string, limit int) ([]index.Hit, error) {
	vector, err := r.embedder.GetEmbedding(ctx, question)
	if err != nil {
		return nil, err
	}
	return r.store.VectorSearch(ctx, vector, limit)
}

func (r *Retriever) hybrid(ctx context.Context, log *logger_i.Logger, question string, size, k int) ([]index.Hit, error) {
	window := overfetchWindow(size)

	var wg sync.WaitGroup
	var keywordHits, vectorHits []index.Hit
	var keywordErr, vectorErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		keywordHits, keywordErr = r.store.KeywordSearch(ctx, question, window)
	}()
	go func() {
		defer wg.Done()
		vectorHits, vectorErr = r.vectorLeg(ctx, question, window)
	}()
	wg.Wait()

	if keywordErr != nil && vectorErr != nil {
		return nil, errors.Join(keywordErr, vectorErr)
	}
	if keywordErr != nil {
		log.Warn("keyword leg failed, degrading to vector only", "error", keywordErr)
		return truncate(vectorHits, size), nil
	}
	if vectorErr != nil {
		log.Warn("vector leg failed, degrading to keyword only", "error", vectorErr)
		return truncate(keywordHits, size), nil
	}

	fused := fuseRRF([][]index.Hit{keywordHits, vectorHits}, k)
	return truncate(fused, size), nil
}

func truncate(hits []index.Hit, size int) []index.Hit {
	if len(hits) > size {
		return hits[:size]
	}
	return hits
}
