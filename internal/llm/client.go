package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"pagesmith/internal/domain"
	"pagesmith/internal/domain/services"
)

// Client implements the services.Gateway interface on top of a set of
// providers. The model configured at construction time selects the provider
// for every call; providers are injected instances, not globals, so tests can
// substitute fakes.
type Client struct {
	providers []Provider
	model     string
	logger    *slog.Logger
}

// NewClient creates a gateway client routing to the given providers.
func NewClient(model string, logger *slog.Logger, providers ...Provider) (*Client, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}

	c := &Client{
		providers: providers,
		model:     model,
		logger:    logger,
	}

	// Fail fast on a model no provider can serve
	if _, err := c.providerFor(model); err != nil {
		return nil, err
	}

	return c, nil
}

var _ services.Gateway = (*Client)(nil)

// StructuredComplete requests a JSON-constrained completion and decodes the
// object into out. Malformed output is an upstream failure, never a panic.
func (c *Client) StructuredComplete(ctx context.Context, systemPrompt, userPrompt, schemaHint string, out any) error {
	system := systemPrompt
	if schemaHint != "" {
		system = fmt.Sprintf(
			"%s\n\nRespond with a single JSON object matching this shape, with no extra text:\n%s",
			systemPrompt, schemaHint,
		)
	}

	text, err := c.complete(ctx, system, userPrompt)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(StripJSONFences(text)), out); err != nil {
		c.logger.Error("structured completion returned malformed JSON",
			"model", c.model,
			"error", err,
		)
		return &domain.UpstreamError{Message: "failed to parse JSON response from AI model"}
	}

	return nil
}

// FreeTextComplete requests a plain-text completion for a single user prompt.
func (c *Client) FreeTextComplete(ctx context.Context, userPrompt string) (string, error) {
	return c.complete(ctx, "", userPrompt)
}

// InstructedComplete requests a plain-text completion with a system
// instruction.
func (c *Client) InstructedComplete(ctx context.Context, systemInstruction, userInput string) (string, error) {
	return c.complete(ctx, systemInstruction, userInput)
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	provider, err := c.providerFor(c.model)
	if err != nil {
		return "", err
	}

	text, err := provider.Complete(ctx, &CompletionRequest{
		Model:  c.model,
		System: system,
		Prompt: prompt,
	})
	if err != nil {
		c.logger.Error("completion failed",
			"provider", provider.Name(),
			"model", c.model,
			"error", err,
		)
		return "", &domain.UpstreamError{Message: fmt.Sprintf("LLM call failed: %v", err)}
	}

	if strings.TrimSpace(text) == "" {
		return "", &domain.UpstreamError{Message: "LLM returned an empty response"}
	}

	return text, nil
}

func (c *Client) providerFor(model string) (Provider, error) {
	for _, p := range c.providers {
		if p.SupportsModel(model) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no provider supports model %q", model)
}

// StripJSONFences removes a surrounding markdown code fence from an LLM
// response. Models frequently wrap JSON in ```json ... ``` despite
// instructions not to.
func StripJSONFences(text string) string {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
