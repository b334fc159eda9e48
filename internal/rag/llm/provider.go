package llm

import "context"

// Provider is the text-completion collaborator: one prompt in, one answer
// out. Callers own timeouts via ctx.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
