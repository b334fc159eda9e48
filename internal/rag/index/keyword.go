package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// keywordIndex is the sparse leg of the document index: an FTS5 table with
// bm25 ranking. One row per chunk, replaced wholesale on re-ingest.
type keywordIndex struct {
	db     *sql.DB
	logger *logger_i.Logger
}

const keywordSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
	chunk_id UNINDEXED,
	doc_id UNINDEXED,
	filename UNINDEXED,
	content
);`

func newKeywordIndex(path string) (*keywordIndex, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening keyword index: %w", err)
	}
	return &keywordIndex{
		db:     db,
		logger: logger_i.NewLogger("KeywordIndex"),
	}, nil
}

func (k *keywordIndex) ensureSchema(ctx context.Context) error {
	if _, err := k.db.ExecContext(ctx, keywordSchema); err != nil {
		return fmt.Errorf("creating keyword schema: %w", err)
	}
	return nil
}

func (k *keywordIndex) upsertBatch(ctx context.Context, chunks []commonModels.DocChunk) error {
	tx, err := k.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("keyword upsert begin: %w", err)
	}
	defer tx.Rollback()

	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chunks_fts WHERE chunk_id = ?`, chunk.ChunkId); err != nil {
			return fmt.Errorf("keyword upsert delete: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chunks_fts (chunk_id, doc_id, filename, content) VALUES (?, ?, ?, ?)`,
			chunk.ChunkId, chunk.Doc.Id, chunk.Doc.Name, chunk.Chunk)
		if err != nil {
			return fmt.Errorf("keyword upsert insert: %w", err)
		}
	}
	return tx.Commit()
}

// search runs a bm25-ranked match. FTS5's bm25() is smaller-is-better, so
// scores are negated to the higher-is-better convention of Hit.
func (k *keywordIndex) search(ctx context.Context, query string, limit int) ([]Hit, error) {
	match := ftsMatchExpr(query)
	if match == "" {
		return nil, nil
	}

	rows, err := k.db.QueryContext(ctx,
		`SELECT chunk_id, filename, content, bm25(chunks_fts) AS rank
		 FROM chunks_fts WHERE chunks_fts MATCH ?
		 ORDER BY rank LIMIT ?`, match, limit)
	if err != nil {
		k.logger.Error("keyword search failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var rank float64
		if err := rows.Scan(&h.ChunkID, &h.Filename, &h.Content, &rank); err != nil {
			return nil, err
		}
		h.Score = -rank
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ftsMatchExpr quotes each term so user text cannot inject FTS5 query
// syntax. Terms are ANDed, FTS5's default.
func ftsMatchExpr(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " ")
}

func (k *keywordIndex) close() error {
	return k.db.Close()
}
