package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage is returned before any processing when the
	// request names a language outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrEmptyText is returned when the request carries no query text.
	ErrEmptyText = errors.New("text must not be empty")

	// ErrSpeechDisabled is returned by Speak when no synthesizer is configured.
	ErrSpeechDisabled = errors.New("speech synthesis is disabled")
)

// UpstreamError wraps a failure of an external provider.
type UpstreamError struct {
	Service string // "weather", "completion" or "tts"
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Kind classifies a dispatch error so transports can map it to a status.
type Kind int

const (
	KindInternal Kind = iota
	KindUnsupportedLanguage
	KindInvalidRequest
	KindUpstream
	KindUnavailable
)

// Classify returns the Kind of err.
func Classify(err error) Kind {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrUnsupportedLanguage):
		return KindUnsupportedLanguage
	case errors.Is(err, ErrEmptyText):
		return KindInvalidRequest
	case errors.Is(err, ErrSpeechDisabled):
		return KindUnavailable
	case errors.As(err, &upstream):
		return KindUpstream
	default:
		return KindInternal
	}
}

// Detail renders err as the client-facing "detail" string. Internal and
// upstream failures carry the underlying message only when expose is set.
func Detail(err error, expose bool) string {
	switch Classify(err) {
	case KindUnsupportedLanguage:
		return "Unsupported language"
	case KindInvalidRequest:
		return "Invalid request: " + err.Error()
	case KindUnavailable:
		return "Speech synthesis is disabled"
	}
	if !expose {
		return "An error occurred: internal error"
	}
	return "An error occurred: " + err.Error()
}
