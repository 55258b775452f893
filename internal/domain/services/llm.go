package services

import "context"

// Gateway is the narrow contract through which the backend consumes external
// LLM providers. Implementations must never panic the caller: network
// failures, rate limits, and malformed output all surface as errors wrapped
// with domain.ErrUpstream.
type Gateway interface {
	// StructuredComplete requests a completion constrained to a JSON object
	// and decodes it into out. schemaHint is a JSON skeleton of the expected
	// shape, included in the instruction.
	StructuredComplete(ctx context.Context, systemPrompt, userPrompt, schemaHint string, out any) error

	// FreeTextComplete requests a plain-text completion for a single user
	// prompt.
	FreeTextComplete(ctx context.Context, userPrompt string) (string, error)

	// InstructedComplete requests a plain-text completion with a separate
	// system instruction. Used for section HTML generation.
	InstructedComplete(ctx context.Context, systemInstruction, userInput string) (string, error)
}
