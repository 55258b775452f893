package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	loremgen "github.com/bozaro/golorem"

	"pagesmith/internal/llm"
)

// Provider is a mock LLM provider that generates lorem ipsum text.
// Used for development and tests without requiring real API keys.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-test"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Complete returns generated filler text. Section prompts get a <section>
// wrapper and JSON-constrained prompts get their own skeleton echoed back, so
// the full generate flow works end to end without a real model.
func (p *Provider) Complete(ctx context.Context, req *llm.CompletionRequest) (string, error) {
	if !p.SupportsModel(req.Model) {
		return "", fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if strings.Contains(req.System, "<section") {
		body := p.generator.Paragraph(2, 4)
		return fmt.Sprintf("<section class=\"p-8\"><p>%s</p></section>", body), nil
	}

	if skeleton, ok := jsonSkeleton(req.System); ok {
		return skeleton, nil
	}
	if skeleton, ok := jsonSkeleton(req.Prompt); ok {
		return skeleton, nil
	}

	return p.generator.Paragraph(2, 4), nil
}

// jsonSkeleton extracts the first valid JSON object embedded in a prompt.
// Structured prompts carry the expected shape inline, so echoing it back
// always decodes.
func jsonSkeleton(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		depth := 0
		for i := start; i < len(text); i++ {
			switch text[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					candidate := text[start : i+1]
					if json.Valid([]byte(candidate)) {
						return candidate, true
					}
					i = len(text)
				}
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return "", false
}
