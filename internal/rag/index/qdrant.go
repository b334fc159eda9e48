package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

var qdrantLogger *logger_i.Logger
var qdrantInstance *qdrant.Client
var qdrantOnce sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.EmbeddingDBName

// vectorIndex is the dense leg of the document index, backed by qdrant.
type vectorIndex struct {
	client *qdrant.Client
}

func getQdrantClient(ctx context.Context) *vectorIndex {
	qdrantOnce.Do(func() {
		qdrantLogger = logger_i.NewLogger("Qdrant")
		res := newQdrantClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &vectorIndex{client: qdrantInstance}
}

func newQdrantClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		qdrantLogger.Error("could not instantiate: ", "error:", err)
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	qdrantLogger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		qdrantLogger.Error("could not close Qdrant: ", "error:", err)
	}
	qdrantLogger.Info("Closed Qdrant")
}

func (db *vectorIndex) ensureCollection(ctx context.Context) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// pointID derives a stable qdrant point id from the chunk id, so
// re-ingesting the same document overwrites its old points instead of
// piling up duplicates.
func pointID(chunkId string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkId)).String()
}

func (db *vectorIndex) upsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(chunk.ChunkId)),
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"content":       chunk.Chunk,
				"page_start":    int64(chunk.PageStart),
				"page_end":      int64(chunk.PageEnd),
				"source_doc_id": chunk.Doc.Id,
				"doc_name":      chunk.Doc.Name,
				"chunk_order":   int64(chunk.ChunkIndex),
				"chunk_id":      chunk.ChunkId,
				"ingested_at":   chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	_, err := db.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *vectorIndex) search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	loggr := qdrantLogger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := db.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	hits := make([]Hit, 0, len(result))
	for _, point := range result {
		hits = append(hits, Hit{
			ChunkID:  point.Payload["chunk_id"].GetStringValue(),
			Filename: point.Payload["doc_name"].GetStringValue(),
			Content:  point.Payload["content"].GetStringValue(),
			Score:    float64(point.Score),
		})
	}

	loggr.Debug("vector search done", "hits", len(hits))
	return hits, nil
}
