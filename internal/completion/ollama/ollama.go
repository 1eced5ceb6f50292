// Package ollama implements the Completer interface against a self-hosted
// Ollama server through langchaingo.
package ollama

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	lcollama "github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/nadzzz/vaani/internal/completion"
	"github.com/nadzzz/vaani/internal/config"
)

// Completer sends chat turns to an Ollama server.
type Completer struct {
	client *lcollama.LLM
	model  string
}

// New creates a new Ollama completer from config.
func New(cfg config.OllamaConfig) (*Completer, error) {
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	opts := []lcollama.Option{lcollama.WithModel(model)}
	if cfg.ServerURL != "" {
		opts = append(opts, lcollama.WithServerURL(cfg.ServerURL))
	}
	client, err := lcollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &Completer{client: client, model: model}, nil
}

// Name returns the backend identifier.
func (c *Completer) Name() string { return "ollama" }

// Complete sends a two-turn conversation and returns the first reply.
func (c *Completer) Complete(ctx context.Context, persona, text string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, persona),
		llms.TextParts(schema.ChatMessageTypeHuman, text),
	}

	resp, err := c.client.GenerateContent(ctx, messages,
		llms.WithModel(c.model),
		llms.WithTemperature(completion.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	return resp.Choices[0].Content, nil
}

// Close is a no-op; the client holds no persistent connections.
func (c *Completer) Close() error { return nil }
