package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/rag/index"
	"github.com/avuppal/driveRAG/internal/rag/llm"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// tokenCounter measures how much of the context budget a block spends.
type tokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	tke *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.tke.Encode(text, nil, nil))
}

// Synthesizer turns retrieved chunks into a grounded answer. Every failure
// path degrades to the deterministic fallback; Synthesize never errors.
type Synthesizer struct {
	provider llm.Provider
	counter  tokenCounter
	budget   int
	logger   *logger_i.Logger
}

func New(provider llm.Provider) (*Synthesizer, error) {
	tke, err := tiktoken.GetEncoding(config.TokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load token encoding %s: %w", config.TokenEncoding, err)
	}
	return &Synthesizer{
		provider: provider,
		counter:  &tiktokenCounter{tke: tke},
		budget:   config.ContextTokenBudget,
		logger:   logger_i.NewLogger("Synthesizer"),
	}, nil
}

// groundingContext is what actually gets sent to the model: the assembled
// text plus the distinct filenames it contains, in first-appearance order.
type groundingContext struct {
	text      string
	filenames []string
}

// buildContext concatenates chunk texts in fused order, each prefixed with
// its source, until the token budget runs out. Citations are derived from
// this assembly, never from the model's prose.
func (s *Synthesizer) buildContext(hits []index.Hit) groundingContext {
	var blocks []string
	var filenames []string
	seen := make(map[string]bool)
	spent := 0

	for _, hit := range hits {
		block := fmt.Sprintf("[Source: %s]\n%s", hit.Filename, hit.Content)
		cost := s.counter.Count(block)
		if spent+cost > s.budget {
			break
		}
		spent += cost
		blocks = append(blocks, block)
		if !seen[hit.Filename] {
			seen[hit.Filename] = true
			filenames = append(filenames, hit.Filename)
		}
	}

	return groundingContext{
		text:      strings.Join(blocks, "\n\n"),
		filenames: filenames,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, query commonModels.QueryContext, hits []index.Hit) commonModels.QueryAnswer {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if len(hits) == 0 {
		return commonModels.QueryAnswer{
			Answer:           "No relevant documents were found for this question.",
			Citations:        []string{},
			SourcesUsed:      0,
			GenerationMethod: commonModels.GenerationFallback,
		}
	}

	grounding := s.buildContext(hits)
	if !query.UseLLM || grounding.text == "" {
		return fallbackAnswer(grounding)
	}

	prompt := fmt.Sprintf(
		"Context:\n%s\n\nUser Question: %s\n\nAnswer using only the context above and name the sources that support your answer.",
		grounding.text, query.Question)

	genCtx, cancel := context.WithTimeout(ctx, config.LLMGenerateTimeout)
	defer cancel()

	text, err := s.provider.Generate(genCtx, prompt)
	if err != nil {
		log.Warn("generation failed, serving fallback", "error", err)
		return fallbackAnswer(grounding)
	}

	return commonModels.QueryAnswer{
		Answer:           text,
		Citations:        grounding.filenames,
		SourcesUsed:      len(grounding.filenames),
		GenerationMethod: commonModels.GenerationLLM,
	}
}

func fallbackAnswer(grounding groundingContext) commonModels.QueryAnswer {
	answer := fmt.Sprintf("Found relevant passages in %d document(s): %s.",
		len(grounding.filenames), strings.Join(grounding.filenames, ", "))
	return commonModels.QueryAnswer{
		Answer:           answer,
		Citations:        grounding.filenames,
		SourcesUsed:      len(grounding.filenames),
		GenerationMethod: commonModels.GenerationFallback,
	}
}
