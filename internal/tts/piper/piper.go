// Package piper implements the TTS Synthesizer against a Piper server that
// speaks the Wyoming protocol over TCP.
package piper

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/nadzzz/vaani/internal/config"
	"github.com/nadzzz/vaani/internal/tts"
)

// defaultVoices maps ISO-639-1 codes to Piper voice models. Piper has no
// Punjabi, Marathi or Gujarati voices yet; those fall back to the English
// voice unless configured.
var defaultVoices = map[string]string{
	"en": "en_US-lessac-medium",
	"hi": "hi_IN-pratham-medium",
}

// Synthesizer implements tts.Synthesizer over the Wyoming protocol.
// Connections are opened per request.
type Synthesizer struct {
	endpoint  string            // default host:port
	endpoints map[string]string // language -> host:port
	voices    map[string]string // language -> voice name
}

// New creates a Piper synthesizer from config. Configured voices override
// the defaults.
func New(cfg config.PiperConfig) *Synthesizer {
	voices := make(map[string]string, len(defaultVoices)+len(cfg.Voices))
	for lang, v := range defaultVoices {
		voices[lang] = v
	}
	for lang, v := range cfg.Voices {
		voices[lang] = v
	}

	endpoints := make(map[string]string, len(cfg.Endpoints))
	for lang, ep := range cfg.Endpoints {
		endpoints[lang] = hostPort(ep)
	}

	return &Synthesizer{
		endpoint:  hostPort(cfg.Endpoint),
		endpoints: endpoints,
		voices:    voices,
	}
}

func hostPort(ep string) string {
	ep = strings.TrimPrefix(ep, "tcp://")
	return strings.TrimPrefix(ep, "http://")
}

// route picks the voice and endpoint for a request.
func (s *Synthesizer) route(opts tts.SynthesizeOpts) (voice, endpoint string) {
	voice = opts.Voice
	if voice == "" {
		voice = s.voices[opts.Language]
	}
	if voice == "" {
		voice = s.voices["en"]
	}
	endpoint = s.endpoints[opts.Language]
	if endpoint == "" {
		endpoint = s.endpoint
	}
	return voice, endpoint
}

// Synthesize sends text to Piper and returns the clip as WAV.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}
	voice, endpoint := s.route(opts)
	if endpoint == "" {
		return nil, fmt.Errorf("no piper endpoint configured for language %q", opts.Language)
	}

	slog.Debug("piper synthesize", "text_length", len(text), "voice", voice, "endpoint", endpoint)

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(30 * time.Second)
	}
	_ = conn.SetDeadline(deadline)

	req := event{
		Type: "synthesize",
		Data: map[string]any{
			"text":  text,
			"voice": map[string]any{"name": voice},
		},
	}
	if err := writeEvent(conn, req, nil); err != nil {
		return nil, fmt.Errorf("sending synthesize event: %w", err)
	}

	return collectAudio(bufio.NewReader(conn))
}

// collectAudio reads audio-start, audio-chunk* and audio-stop events and
// wraps the PCM stream in a WAV container.
func collectAudio(r *bufio.Reader) (*tts.SynthesizeResult, error) {
	format := pcmFormat{rate: 22050, channels: 1, width: 2}
	var pcm bytes.Buffer

	for {
		evt, payload, err := readEvent(r)
		if err != nil {
			return nil, fmt.Errorf("reading piper event: %w", err)
		}

		switch evt.Type {
		case "audio-start":
			format.update(evt.Data)
		case "audio-chunk":
			pcm.Write(payload)
		case "audio-stop":
			slog.Debug("piper audio complete", "pcm_bytes", pcm.Len(), "rate", format.rate)
			return &tts.SynthesizeResult{
				Audio:       format.wav(pcm.Bytes()),
				ContentType: tts.ContentTypeWAV,
				SampleRate:  format.rate,
			}, nil
		case "error":
			msg, _ := evt.Data["text"].(string)
			if msg == "" {
				msg = "unknown error"
			}
			return nil, fmt.Errorf("piper error: %s", msg)
		}
	}
}

// Close is a no-op; connections are per request.
func (s *Synthesizer) Close() error { return nil }
