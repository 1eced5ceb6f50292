// Package transport defines the interface for pluggable request transports.
//
// Each transport (HTTP, gRPC) implements this interface and is handed the
// dispatcher as a Service. The dispatcher doesn't care how requests arrive.
package transport

import (
	"context"

	"github.com/nadzzz/vaani/internal/message"
	"github.com/nadzzz/vaani/internal/tts"
)

// Service answers assistant requests. *dispatch.Dispatcher implements it.
type Service interface {
	// Handle answers a request with text.
	Handle(ctx context.Context, req *message.Request) (*message.Response, error)

	// Speak answers a request and synthesizes the answer as audio.
	Speak(ctx context.Context, req *message.Request) (*message.Response, *tts.SynthesizeResult, error)
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "http", "grpc").
	Name() string

	// Listen starts accepting requests and passes them to svc.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, svc Service) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
