package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WEATHER_API_KEY", "owm-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Completion.OpenAI.APIKey != "sk-test" {
		t.Fatalf("want openai key from env, got %q", cfg.Completion.OpenAI.APIKey)
	}
	if cfg.Weather.APIKey != "owm-test" {
		t.Fatalf("want weather key from env, got %q", cfg.Weather.APIKey)
	}
	if cfg.Completion.Backend != "openai" || cfg.Completion.OpenAI.Model != "gpt-3.5-turbo" {
		t.Fatalf("unexpected completion defaults: %+v", cfg.Completion)
	}
	if !cfg.Transports.HTTP.Enabled || cfg.Transports.HTTP.Port != 8000 {
		t.Fatalf("unexpected http defaults: %+v", cfg.Transports.HTTP)
	}
	if cfg.Weather.Timeout != 10*time.Second {
		t.Fatalf("want 10s weather timeout, got %s", cfg.Weather.Timeout)
	}
	if cfg.ChatLog.Path != "chat_history.txt" || cfg.Personas.Dir != "personalities" {
		t.Fatalf("unexpected file defaults: %+v %+v", cfg.ChatLog, cfg.Personas)
	}
	if !cfg.Server.ExposeErrors {
		t.Fatalf("expose_errors should default to true")
	}
}

func TestLoadMissingCredentialsIsNotAnError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("WEATHER_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Completion.OpenAI.APIKey != "" || cfg.Weather.APIKey != "" {
		t.Fatalf("unresolved refs leaked: %q %q", cfg.Completion.OpenAI.APIKey, cfg.Weather.APIKey)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "vaani.yaml")
	yaml := `
transports:
  http:
    port: 9090
  grpc:
    enabled: true
completion:
  backend: ollama
  ollama:
    model: llama3.2:1b
weather:
  api_key: ${MY_WEATHER_KEY}
  timeout: 3s
chatlog:
  path: /tmp/vaani/chat.txt
`
	if err := os.WriteFile(p, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MY_WEATHER_KEY", "from-ref")
	t.Setenv("VAANI_LOGGING_LEVEL", "debug")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Transports.HTTP.Port != 9090 || !cfg.Transports.GRPC.Enabled {
		t.Fatalf("unexpected transports: %+v", cfg.Transports)
	}
	if cfg.Completion.Backend != "ollama" || cfg.Completion.Ollama.Model != "llama3.2:1b" {
		t.Fatalf("unexpected completion: %+v", cfg.Completion)
	}
	if cfg.Weather.APIKey != "from-ref" || cfg.Weather.Timeout != 3*time.Second {
		t.Fatalf("unexpected weather: %+v", cfg.Weather)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("env override ignored, level=%q", cfg.Logging.Level)
	}
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "vaani.yaml")
	if err := os.WriteFile(p, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestResolveEnvRef(t *testing.T) {
	t.Setenv("VAANI_TEST_SECRET", "s3cret")
	tests := map[string]string{
		"${VAANI_TEST_SECRET}": "s3cret",
		"${VAANI_TEST_UNSET}":  "",
		"literal":              "literal",
		"":                     "",
	}
	for in, want := range tests {
		if got := resolveEnvRef(in); got != want {
			t.Fatalf("resolveEnvRef(%q): want %q, got %q", in, want, got)
		}
	}
}
