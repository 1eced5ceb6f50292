package main

import (
	"fmt"
	"log/slog"

	"github.com/nadzzz/vaani/internal/chatlog"
	"github.com/nadzzz/vaani/internal/completion"
	ollamacompletion "github.com/nadzzz/vaani/internal/completion/ollama"
	openaicompletion "github.com/nadzzz/vaani/internal/completion/openai"
	"github.com/nadzzz/vaani/internal/config"
	"github.com/nadzzz/vaani/internal/dispatch"
	"github.com/nadzzz/vaani/internal/intent"
	"github.com/nadzzz/vaani/internal/lexicon"
	"github.com/nadzzz/vaani/internal/persona"
	"github.com/nadzzz/vaani/internal/tts"
	"github.com/nadzzz/vaani/internal/tts/piper"
	"github.com/nadzzz/vaani/internal/weather"
)

// service is a fully wired dispatcher plus the backends it must release.
type service struct {
	*dispatch.Dispatcher
	completer   completion.Completer
	synthesizer tts.Synthesizer
}

func (s *service) Close() {
	if err := s.completer.Close(); err != nil {
		slog.Warn("completion backend close error", "error", err)
	}
	if s.synthesizer != nil {
		if err := s.synthesizer.Close(); err != nil {
			slog.Warn("tts backend close error", "error", err)
		}
	}
}

// buildService loads personas and the city lexicon and connects the
// configured backends. Any failure here is fatal at startup.
func buildService(cfg *config.Config) (*service, error) {
	personas, err := persona.Load(cfg.Personas.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading personas: %w", err)
	}

	cities, err := lexicon.Load(cfg.Lexicon.File)
	if err != nil {
		return nil, fmt.Errorf("loading city lexicon: %w", err)
	}
	extractor := intent.NewExtractor(cities)
	slog.Info("city lexicon ready", "cities", extractor.Cities())

	var completer completion.Completer
	switch cfg.Completion.Backend {
	case "openai":
		completer = openaicompletion.New(cfg.Completion.OpenAI)
		slog.Info("using OpenAI completion backend", "model", cfg.Completion.OpenAI.Model)
	case "ollama":
		c, err := ollamacompletion.New(cfg.Completion.Ollama)
		if err != nil {
			return nil, fmt.Errorf("ollama backend: %w", err)
		}
		completer = c
		slog.Info("using Ollama completion backend",
			"server", cfg.Completion.Ollama.ServerURL,
			"model", cfg.Completion.Ollama.Model)
	default:
		return nil, fmt.Errorf("unknown completion backend %q", cfg.Completion.Backend)
	}

	log, err := chatlog.NewFileLogger(cfg.ChatLog.Path)
	if err != nil {
		_ = completer.Close()
		return nil, fmt.Errorf("opening chat log: %w", err)
	}

	var synthesizer tts.Synthesizer
	if cfg.TTS.Enabled {
		switch cfg.TTS.Backend {
		case "piper":
			synthesizer = piper.New(cfg.TTS.Piper)
			slog.Info("using Piper TTS backend",
				"endpoint", cfg.TTS.Piper.Endpoint,
				"endpoints", cfg.TTS.Piper.Endpoints)
		default:
			_ = completer.Close()
			return nil, fmt.Errorf("unknown tts backend %q", cfg.TTS.Backend)
		}
	}

	d := dispatch.New(extractor, weather.New(cfg.Weather), personas, completer, log, synthesizer)
	return &service{Dispatcher: d, completer: completer, synthesizer: synthesizer}, nil
}
