package chunker

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
)

// tokenizer is the minimal slice of the BPE codec the chunker needs.
// Decoding a contiguous token range must yield the matching contiguous
// byte range of the encoded text.
type tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenCodec struct {
	tke *tiktoken.Tiktoken
}

func (c *tiktokenCodec) Encode(text string) []int {
	return c.tke.Encode(text, nil, nil)
}

func (c *tiktokenCodec) Decode(tokens []int) string {
	return c.tke.Decode(tokens)
}

type Chunker struct {
	tok     tokenizer
	target  int
	ceiling int
	overlap int
	slack   int
}

func New() (*Chunker, error) {
	tke, err := tiktoken.GetEncoding(config.TokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load token encoding %s: %w", config.TokenEncoding, err)
	}
	return &Chunker{
		tok:     &tiktokenCodec{tke: tke},
		target:  config.ChunkTargetTokens,
		ceiling: config.ChunkMaxTokens,
		overlap: config.ChunkOverlapTokens,
		slack:   config.ChunkBoundarySlack,
	}, nil
}

// pageSpan maps a byte range of the concatenated document text back to the
// page it came from.
type pageSpan struct {
	start     int
	end       int
	pageIndex int
}

// boundary separators in preference order: paragraph break, line break,
// sentence end
var boundarySeps = []string{"\n\n", "\n", ". "}

// ChunkDocument splits the ordered pages of one document into overlapping,
// token-bounded chunks. Whitespace-only documents yield zero chunks.
// Identical input always produces identical boundaries.
func (c *Chunker) ChunkDocument(doc commonModels.Document, pages []commonModels.Page) []commonModels.DocChunk {
	full, spans := concatPages(pages)
	if strings.TrimSpace(full) == "" {
		return nil
	}

	tokens := c.tok.Encode(full)
	offsets := c.tokenOffsets(tokens)

	var chunks []commonModels.DocChunk
	start := 0
	for start < len(tokens) {
		end := start + c.target
		if end > len(tokens) {
			end = len(tokens)
		} else {
			end = c.snapToBoundary(full, offsets, start, end)
		}

		text := strings.TrimSpace(full[offsets[start]:offsets[end]])
		if text != "" {
			chunks = append(chunks, c.buildChunk(doc, text, len(chunks), offsets[start], offsets[end], spans))
		}

		if end == len(tokens) {
			break
		}
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// tokenOffsets returns, for each token boundary, the byte offset it lands on
// in the source text. offsets[i] is where token i starts; offsets[len] is the
// end of the text.
func (c *Chunker) tokenOffsets(tokens []int) []int {
	offsets := make([]int, len(tokens)+1)
	for i, t := range tokens {
		offsets[i+1] = offsets[i] + len(c.tok.Decode([]int{t}))
	}
	return offsets
}

// snapToBoundary pulls the cut point back to the nearest sentence or
// paragraph break, if one exists within the slack window. Falls back to the
// hard token cut at end.
func (c *Chunker) snapToBoundary(full string, offsets []int, start, end int) int {
	low := end - c.slack
	if low <= start {
		low = start + 1
	}
	for _, sep := range boundarySeps {
		for t := end; t >= low; t-- {
			if strings.HasSuffix(full[:offsets[t]], sep) {
				return t
			}
		}
	}
	return end
}

func (c *Chunker) buildChunk(doc commonModels.Document, text string, index, byteStart, byteEnd int, spans []pageSpan) commonModels.DocChunk {
	encoded := c.tok.Encode(text)
	if len(encoded) > c.ceiling {
		// re-encoding a trimmed cut can exceed the slice it came from;
		// drop trailing tokens to honor the ceiling
		encoded = encoded[:c.ceiling]
		text = c.tok.Decode(encoded)
	}
	return commonModels.DocChunk{
		Doc:        doc,
		ChunkId:    fmt.Sprintf("%s_%d", doc.Id, index),
		Chunk:      text,
		TokenCount: len(encoded),
		PageStart:  pageAt(spans, byteStart),
		PageEnd:    pageAt(spans, byteEnd-1),
		ChunkIndex: index,
	}
}

// concatPages joins page texts in order with a newline between pages and
// records each page's byte range for provenance lookups.
func concatPages(pages []commonModels.Page) (string, []pageSpan) {
	var builder strings.Builder
	spans := make([]pageSpan, 0, len(pages))
	for i, p := range pages {
		if i > 0 {
			builder.WriteString("\n")
		}
		start := builder.Len()
		builder.WriteString(p.Text)
		spans = append(spans, pageSpan{start: start, end: builder.Len(), pageIndex: p.Index})
	}
	return builder.String(), spans
}

func pageAt(spans []pageSpan, offset int) int {
	for _, s := range spans {
		if offset < s.end {
			return s.pageIndex
		}
	}
	if len(spans) > 0 {
		return spans[len(spans)-1].pageIndex
	}
	return 0
}
