package rag_test

import (
	"context"

	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/rag/extract"
	"github.com/avuppal/driveRAG/internal/rag/index"
)

type MockStore struct {
	OnEnsureReady   func(ctx context.Context) error
	OnUpsertBatch   func(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	OnKeywordSearch func(ctx context.Context, query string, limit int) ([]index.Hit, error)
	OnVectorSearch  func(ctx context.Context, vector []float32, limit int) ([]index.Hit, error)
}

func (m *MockStore) EnsureReady(ctx context.Context) error {
	if m.OnEnsureReady != nil {
		return m.OnEnsureReady(ctx)
	}
	return nil
}

func (m *MockStore) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, chunks, vectors)
	}
	return nil
}

func (m *MockStore) KeywordSearch(ctx context.Context, query string, limit int) ([]index.Hit, error) {
	if m.OnKeywordSearch != nil {
		return m.OnKeywordSearch(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockStore) VectorSearch(ctx context.Context, vector []float32, limit int) ([]index.Hit, error) {
	if m.OnVectorSearch != nil {
		return m.OnVectorSearch(ctx, vector, limit)
	}
	return nil, nil
}

func (m *MockStore) Close() error { return nil }

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	return make([][]float32, len(chunks)), nil
}

type MockRetriever struct {
	OnRetrieve func(ctx context.Context, query commonModels.QueryContext) ([]index.Hit, error)
	Calls      int
}

func (m *MockRetriever) Retrieve(ctx context.Context, query commonModels.QueryContext) ([]index.Hit, error) {
	m.Calls++
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, query)
	}
	return nil, nil
}

type MockSynthesizer struct {
	OnSynthesize func(ctx context.Context, query commonModels.QueryContext, hits []index.Hit) commonModels.QueryAnswer
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, query commonModels.QueryContext, hits []index.Hit) commonModels.QueryAnswer {
	if m.OnSynthesize != nil {
		return m.OnSynthesize(ctx, query, hits)
	}
	return commonModels.QueryAnswer{Answer: "mock answer", GenerationMethod: commonModels.GenerationLLM}
}

type MockAnswerCache struct {
	OnGet func(ctx context.Context, key string) (commonModels.QueryAnswer, bool)
	Saved map[string]commonModels.QueryAnswer
}

func (m *MockAnswerCache) Get(ctx context.Context, key string) (commonModels.QueryAnswer, bool) {
	if m.OnGet != nil {
		return m.OnGet(ctx, key)
	}
	return commonModels.QueryAnswer{}, false
}

func (m *MockAnswerCache) Put(ctx context.Context, key string, answer commonModels.QueryAnswer) error {
	if m.Saved == nil {
		m.Saved = map[string]commonModels.QueryAnswer{}
	}
	m.Saved[key] = answer
	return nil
}

type MockDownloader struct {
	OnFetchFolder func(ctx context.Context, folderURL string) ([]extract.SourceFile, error)
}

func (m *MockDownloader) FetchFolder(ctx context.Context, folderURL string) ([]extract.SourceFile, error) {
	if m.OnFetchFolder != nil {
		return m.OnFetchFolder(ctx, folderURL)
	}
	return nil, nil
}

// MockChunker emits one chunk per non-empty page, enough shape for the
// service-level tests without pulling in the BPE tables.
type MockChunker struct{}

func (MockChunker) ChunkDocument(doc commonModels.Document, pages []commonModels.Page) []commonModels.DocChunk {
	var chunks []commonModels.DocChunk
	for i, p := range pages {
		if p.Text == "" {
			continue
		}
		chunks = append(chunks, commonModels.DocChunk{
			Doc:        doc,
			ChunkId:    doc.Id + "_" + string(rune('0'+i)),
			Chunk:      p.Text,
			TokenCount: len(p.Text),
			PageStart:  p.Index,
			PageEnd:    p.Index,
			ChunkIndex: i,
		})
	}
	return chunks
}
