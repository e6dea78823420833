package agent

import "context"

// Generator is the single operation the pipeline needs from a
// text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}
