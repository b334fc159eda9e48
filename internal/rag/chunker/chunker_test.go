package chunker

import (
	"reflect"
	"strings"
	"testing"

	"github.com/avuppal/driveRAG/internal/domain/commonModels"
)

// byteCodec treats every byte as one token, which preserves the contiguity
// property the chunker relies on while keeping tests offline.
type byteCodec struct{}

func (byteCodec) Encode(text string) []int {
	tokens := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		tokens[i] = int(text[i])
	}
	return tokens
}

func (byteCodec) Decode(tokens []int) string {
	raw := make([]byte, len(tokens))
	for i, t := range tokens {
		raw[i] = byte(t)
	}
	return string(raw)
}

func newTestChunker() *Chunker {
	return &Chunker{
		tok:     byteCodec{},
		target:  20,
		ceiling: 24,
		overlap: 5,
		slack:   8,
	}
}

func pagesOf(texts ...string) []commonModels.Page {
	pages := make([]commonModels.Page, len(texts))
	for i, t := range texts {
		pages[i] = commonModels.Page{Index: i, Text: t}
	}
	return pages
}

func TestChunkDocument_EmptyInput(t *testing.T) {
	c := newTestChunker()
	doc := commonModels.Document{Id: "doc-1"}

	if got := c.ChunkDocument(doc, nil); len(got) != 0 {
		t.Errorf("Expected 0 chunks for no pages, got %d", len(got))
	}
	if got := c.ChunkDocument(doc, pagesOf("", "   ", "\n\n")); len(got) != 0 {
		t.Errorf("Expected 0 chunks for whitespace-only pages, got %d", len(got))
	}
}

func TestChunkDocument_CeilingAndSubstring(t *testing.T) {
	c := newTestChunker()
	doc := commonModels.Document{Id: "doc-1", Name: "long.pdf"}
	text := strings.Repeat("abcdefghij", 12)
	pages := pagesOf(text)

	chunks := c.ChunkDocument(doc, pages)
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if ch.TokenCount > c.ceiling {
			t.Errorf("Chunk %d token count %d exceeds ceiling %d", i, ch.TokenCount, c.ceiling)
		}
		if !strings.Contains(text, ch.Chunk) {
			t.Errorf("Chunk %d text is not a substring of the source: %q", i, ch.Chunk)
		}
		if ch.ChunkIndex != i {
			t.Errorf("Chunk %d carries ordinal %d", i, ch.ChunkIndex)
		}
		if ch.ChunkId != "doc-1_"+string(rune('0'+i)) && i < 10 {
			t.Errorf("Unexpected chunk id %q", ch.ChunkId)
		}
	}
}

func TestChunkDocument_Overlap(t *testing.T) {
	c := newTestChunker()
	doc := commonModels.Document{Id: "doc-1"}
	// no whitespace, so boundaries never snap and nothing is trimmed
	text := strings.Repeat("abcdefghij", 6)

	chunks := c.ChunkDocument(doc, pagesOf(text))
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	first := chunks[0].Chunk
	tail := first[len(first)-c.overlap:]
	if !strings.HasPrefix(chunks[1].Chunk, tail) {
		t.Errorf("Second chunk does not repeat the overlap window: %q vs %q", tail, chunks[1].Chunk)
	}
}

func TestChunkDocument_Deterministic(t *testing.T) {
	c := newTestChunker()
	doc := commonModels.Document{Id: "doc-1"}
	pages := pagesOf(strings.Repeat("the quick brown fox. ", 10), "second page text here.")

	a := c.ChunkDocument(doc, pages)
	b := c.ChunkDocument(doc, pages)

	if !reflect.DeepEqual(a, b) {
		t.Error("Chunking the same pages twice produced different output")
	}
}

func TestChunkDocument_PrefersParagraphBreak(t *testing.T) {
	c := newTestChunker()
	doc := commonModels.Document{Id: "doc-1"}
	// paragraph break 15 bytes in, inside the slack window below target 20
	text := strings.Repeat("a", 15) + "\n\n" + strings.Repeat("b", 30)

	chunks := c.ChunkDocument(doc, pagesOf(text))
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	if chunks[0].Chunk != strings.Repeat("a", 15) {
		t.Errorf("First chunk should end at the paragraph break, got %q", chunks[0].Chunk)
	}
}

func TestChunkDocument_HardCutWithoutBoundary(t *testing.T) {
	c := newTestChunker()
	doc := commonModels.Document{Id: "doc-1"}
	text := strings.Repeat("x", 50)

	chunks := c.ChunkDocument(doc, pagesOf(text))
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	if len(chunks[0].Chunk) != c.target {
		t.Errorf("Expected a hard cut at %d tokens, got %d", c.target, len(chunks[0].Chunk))
	}
}

func TestChunkDocument_PageProvenance(t *testing.T) {
	c := newTestChunker()
	c.target = 40
	doc := commonModels.Document{Id: "doc-1"}
	pages := pagesOf(strings.Repeat("a", 10), strings.Repeat("b", 10))

	chunks := c.ChunkDocument(doc, pages)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk spanning both pages, got %d", len(chunks))
	}
	if chunks[0].PageStart != 0 || chunks[0].PageEnd != 1 {
		t.Errorf("Expected span pages 0..1, got %d..%d", chunks[0].PageStart, chunks[0].PageEnd)
	}
}
