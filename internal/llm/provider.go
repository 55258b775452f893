package llm

import "context"

// CompletionRequest contains the parameters for a single completion call.
type CompletionRequest struct {
	// Model is the model identifier (e.g. "claude-haiku-4-5-20251001")
	Model string

	// System is an optional system instruction
	System string

	// Prompt is the user-role content
	Prompt string

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int
}

// Provider is one LLM backend. Providers are routed by model prefix, so a
// registry can hold several at once.
type Provider interface {
	// Complete performs one blocking completion call and returns the raw
	// text response.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// Name returns the provider name (e.g. "anthropic", "lorem")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}
