// Package completion defines the interface for LLM chat completion backends.
//
// A completer answers a single user turn under a persona system prompt.
// vaani ships with two backends: OpenAI (cloud, via go-openai) and Ollama
// (self-hosted, via langchaingo).
package completion

import "context"

// Temperature is the sampling temperature used for every completion.
const Temperature = 0.8

// Completer is the interface for chat completion backends.
type Completer interface {
	// Name returns the backend identifier (e.g., "openai", "ollama").
	Name() string

	// Complete sends the persona as the system turn and text as the user
	// turn, and returns the first choice's content verbatim.
	Complete(ctx context.Context, persona, text string) (string, error)

	// Close releases any resources held by the backend.
	Close() error
}
