package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesmith/internal/domain"
)

type stubProvider struct {
	name     string
	prefix   string
	response string
	err      error
}

func (p *stubProvider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	return p.response, p.err
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, p.prefix)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClientRequiresSupportedModel(t *testing.T) {
	provider := &stubProvider{name: "stub", prefix: "stub-"}

	_, err := NewClient("gpt-4", discardLogger(), provider)
	assert.Error(t, err)

	client, err := NewClient("stub-small", discardLogger(), provider)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClientRoutesByModelPrefix(t *testing.T) {
	first := &stubProvider{name: "first", prefix: "first-", response: "from first"}
	second := &stubProvider{name: "second", prefix: "second-", response: "from second"}

	client, err := NewClient("second-large", discardLogger(), first, second)
	require.NoError(t, err)

	text, err := client.FreeTextComplete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "from second", text)
}

func TestStructuredComplete(t *testing.T) {
	t.Run("decodes fenced JSON", func(t *testing.T) {
		provider := &stubProvider{
			name:     "stub",
			prefix:   "stub-",
			response: "```json\n{\"name\":\"Acme\"}\n```",
		}
		client, err := NewClient("stub-small", discardLogger(), provider)
		require.NoError(t, err)

		var out struct {
			Name string `json:"name"`
		}
		require.NoError(t, client.StructuredComplete(context.Background(), "sys", "user", `{"name":""}`, &out))
		assert.Equal(t, "Acme", out.Name)
	})

	t.Run("malformed output is an upstream error", func(t *testing.T) {
		provider := &stubProvider{name: "stub", prefix: "stub-", response: "not json at all"}
		client, err := NewClient("stub-small", discardLogger(), provider)
		require.NoError(t, err)

		var out map[string]any
		err = client.StructuredComplete(context.Background(), "sys", "user", "", &out)
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}

func TestCompleteWrapsProviderFailures(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		provider := &stubProvider{name: "stub", prefix: "stub-", err: errors.New("rate limited")}
		client, err := NewClient("stub-small", discardLogger(), provider)
		require.NoError(t, err)

		_, err = client.FreeTextComplete(context.Background(), "hello")
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})

	t.Run("empty response", func(t *testing.T) {
		provider := &stubProvider{name: "stub", prefix: "stub-", response: "  \n "}
		client, err := NewClient("stub-small", discardLogger(), provider)
		require.NoError(t, err)

		_, err = client.InstructedComplete(context.Background(), "sys", "hello")
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripJSONFences(tt.input))
		})
	}
}
