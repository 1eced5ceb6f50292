// Package dispatch implements the core request routing engine.
//
// The dispatcher validates the request language, asks the intent extractor
// whether the query is a weather question, answers it from the weather
// provider or the chat completion backend, and appends the exchange to the
// chat log before returning.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/vaani/internal/chatlog"
	"github.com/nadzzz/vaani/internal/completion"
	"github.com/nadzzz/vaani/internal/language"
	"github.com/nadzzz/vaani/internal/message"
	"github.com/nadzzz/vaani/internal/tts"
)

// CityExtractor finds the city a weather query refers to.
type CityExtractor interface {
	ExtractCity(query string) (string, bool)
}

// WeatherLookup answers a temperature question for a city.
type WeatherLookup interface {
	Lookup(ctx context.Context, city string, lang language.Language) (string, error)
}

// Personas supplies the system prompt for a language.
type Personas interface {
	Prompt(lang language.Language) (string, bool)
}

// Dispatcher is the central routing engine.
type Dispatcher struct {
	extractor   CityExtractor
	weather     WeatherLookup
	personas    Personas
	completer   completion.Completer
	log         chatlog.Logger
	synthesizer tts.Synthesizer // nil if TTS is disabled
}

// New creates a Dispatcher. synthesizer may be nil.
func New(extractor CityExtractor, weather WeatherLookup, personas Personas,
	completer completion.Completer, log chatlog.Logger, synthesizer tts.Synthesizer) *Dispatcher {
	return &Dispatcher{
		extractor:   extractor,
		weather:     weather,
		personas:    personas,
		completer:   completer,
		log:         log,
		synthesizer: synthesizer,
	}
}

// Handle answers a single request. Transports call it through
// transport.Service.
func (d *Dispatcher) Handle(ctx context.Context, req *message.Request) (*message.Response, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	logger := slog.With("request_id", req.ID, "language", req.Language)

	lang, err := validate(req)
	if err != nil {
		logger.Info("rejected request", "reason", err)
		return nil, err
	}

	logger.Info("dispatch started", "text_length", len(req.Text))

	resp := &message.Response{}
	if city, ok := d.extractor.ExtractCity(req.Text); ok {
		logger.Debug("weather intent detected", "city", city)
		answer, err := d.weather.Lookup(ctx, city, lang)
		if err != nil {
			logger.Error("weather lookup failed", "city", city, "error", err)
			return nil, &UpstreamError{Service: "weather", Err: err}
		}
		resp.Response = answer
		resp.Route = message.RouteWeather
	} else {
		persona, ok := d.personas.Prompt(lang)
		if !ok {
			return nil, fmt.Errorf("no persona loaded for %s", lang)
		}
		answer, err := d.completer.Complete(ctx, persona, req.Text)
		if err != nil {
			logger.Error("chat completion failed", "backend", d.completer.Name(), "error", err)
			return nil, &UpstreamError{Service: "completion", Err: err}
		}
		resp.Response = answer
		resp.Route = message.RouteChat
	}

	// The chat log is a record, not part of the answer: a failed write is
	// reported but the caller still gets the response.
	if err := d.log.Append(chatlog.Entry{UserInput: req.Text, AssistantResponse: resp.Response}); err != nil {
		logger.Error("chat log append failed", "error", err)
	}

	logger.Info("dispatch complete", "route", resp.Route, "duration", time.Since(start))
	return resp, nil
}

// Speak answers req like Handle and synthesizes the answer as audio in the
// request's language.
func (d *Dispatcher) Speak(ctx context.Context, req *message.Request) (*message.Response, *tts.SynthesizeResult, error) {
	// A bad request is reported as such whether or not speech is enabled.
	if _, err := validate(req); err != nil {
		return nil, nil, err
	}
	if d.synthesizer == nil {
		return nil, nil, ErrSpeechDisabled
	}
	resp, err := d.Handle(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	lang, _ := language.Parse(req.Language)
	logger := slog.With("request_id", req.ID, "language", req.Language)
	logger.Debug("synthesizing response", "text_length", len(resp.Response))

	audio, err := d.synthesizer.Synthesize(ctx, resp.Response, tts.SynthesizeOpts{Language: lang.ISO()})
	if err != nil {
		logger.Error("TTS synthesis failed", "error", err)
		return nil, nil, &UpstreamError{Service: "tts", Err: err}
	}
	logger.Info("TTS synthesis complete", "audio_bytes", len(audio.Audio))
	return resp, audio, nil
}

// validate checks the language first, then the text. Nothing upstream is
// contacted for a request that fails here.
func validate(req *message.Request) (language.Language, error) {
	lang, ok := language.Parse(req.Language)
	if !ok {
		return "", ErrUnsupportedLanguage
	}
	// Whitespace is still text; only a missing question is rejected.
	if req.Text == "" {
		return "", ErrEmptyText
	}
	return lang, nil
}
