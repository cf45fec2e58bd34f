// Package agent holds the plan-generation pipeline: feasibility gate,
// weather-relevance classification, conditional forecast retrieval,
// the LLM call producing two plan variants, schema validation, and the
// deterministic schedule post-processing (reordering around bad
// weather windows and rain buffer injection).
package agent

import (
	"context"
	"fmt"
	"strings"
)

// Generator abstracts the model backend: it takes a fully built prompt
// and returns the raw model text.
type Generator interface {
	GeneratePlans(ctx context.Context, prompt string) (string, error)
}

// Options selects and configures a Generator backend.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewGenerator builds the configured backend. Defaults to Gemini.
func NewGenerator(ctx context.Context, opts Options) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "gemini":
		return NewGeminiGenerator(ctx, opts.APIKey, opts.Model)
	case "openai":
		return NewOpenAIGenerator(opts.APIKey, opts.Model, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", opts.Provider)
	}
}

// cleanModelOutput strips the markdown code fences models like to wrap
// JSON in.
func cleanModelOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
