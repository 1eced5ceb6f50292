// Package openai implements the Completer interface using OpenAI's Chat
// Completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/nadzzz/vaani/internal/completion"
	"github.com/nadzzz/vaani/internal/config"
)

// Completer calls the OpenAI Chat Completions API.
type Completer struct {
	client *goopenai.Client
	model  string
}

// New creates a new OpenAI completer from config.
func New(cfg config.OpenAIConfig) *Completer {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = goopenai.GPT3Dot5Turbo
	}
	return &Completer{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Name returns the backend identifier.
func (c *Completer) Name() string { return "openai" }

// Complete sends a two-turn conversation and returns the first reply.
func (c *Completer) Complete(ctx context.Context, persona, text string) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: persona},
			{Role: goopenai.ChatMessageRoleUser, Content: text},
		},
		Temperature: completion.Temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned from chat API")
	}

	slog.Debug("chat completion complete",
		"model", c.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

// Close is a no-op for the OpenAI completer.
func (c *Completer) Close() error { return nil }
