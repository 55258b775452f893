// Package prompts holds the instruction templates sent to the LLM gateway.
// Templates live in an embedded YAML catalog so prompt wording can be tuned
// without touching orchestration code.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogFile embed.FS

// Catalog manages named prompt templates.
type Catalog struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

type catalogFileFormat struct {
	Prompts map[string]string `yaml:"prompts"`
}

// NewCatalog loads and parses the embedded prompt catalog.
func NewCatalog() (*Catalog, error) {
	data, err := catalogFile.ReadFile("catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("read prompt catalog: %w", err)
	}

	var parsed catalogFileFormat
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal prompt catalog: %w", err)
	}

	c := &Catalog{templates: make(map[string]*template.Template, len(parsed.Prompts))}
	for name, text := range parsed.Prompts {
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %q: %w", name, err)
		}
		c.templates[name] = tmpl
	}

	return c, nil
}

// Render executes the named template with the given data.
func (c *Catalog) Render(name string, data any) (string, error) {
	c.mu.RLock()
	tmpl, ok := c.templates[name]
	c.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("unknown prompt: %s", name)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}

	return strings.TrimSpace(sb.String()), nil
}

// Get returns a static prompt that takes no template data.
func (c *Catalog) Get(name string) (string, error) {
	return c.Render(name, nil)
}
