// Package tts turns a vaani answer into audio.
//
// Speech is optional. When tts.enabled is off no Synthesizer is built and
// POST /assistant/speech answers 503; the text endpoint is unaffected.
package tts

import "context"

// ContentTypeWAV is the media type of a complete RIFF/WAV clip.
const ContentTypeWAV = "audio/wav"

// SynthesizeOpts selects how an answer is voiced.
type SynthesizeOpts struct {
	// Language is the short code of the request language, as returned by
	// language.Language.ISO: "pa", "mr", "gu", "hi" or "en".
	Language string

	// Voice names a model explicitly. Empty means the voice configured
	// for Language under tts.voices.
	Voice string
}

// Synthesizer speaks answer text. The dispatcher calls it only after an
// answer has been produced and logged, so a synthesis failure never loses
// the exchange.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)
	Close() error
}

// SynthesizeResult is one spoken answer, ready to be written as the body of
// a speech response.
type SynthesizeResult struct {
	Audio       []byte
	ContentType string // ContentTypeWAV for Piper
	SampleRate  int    // Hz, reported to clients as X-Sample-Rate
}
