// Package config handles loading and validating the vaani configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the vaani daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Completion CompletionConfig `mapstructure:"completion"`
	Weather    WeatherConfig    `mapstructure:"weather"`
	Personas   PersonasConfig   `mapstructure:"personas"`
	Lexicon    LexiconConfig    `mapstructure:"lexicon"`
	ChatLog    ChatLogConfig    `mapstructure:"chatlog"`
	TTS        TTSConfig        `mapstructure:"tts"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings and error exposure policy.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`

	// ExposeErrors puts the underlying error message in 500 responses
	// ("An error occurred: <message>"). When false the message is redacted.
	ExposeErrors bool `mapstructure:"expose_errors"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
	GRPC GRPCConfig `mapstructure:"grpc"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// CompletionConfig selects and configures the chat completion backend.
type CompletionConfig struct {
	Backend string       `mapstructure:"backend"` // "openai" or "ollama"
	OpenAI  OpenAIConfig `mapstructure:"openai"`
	Ollama  OllamaConfig `mapstructure:"ollama"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"` // empty means api.openai.com
	Model   string `mapstructure:"model"`
}

// OllamaConfig holds self-hosted LLM settings.
type OllamaConfig struct {
	ServerURL string `mapstructure:"server_url"`
	Model     string `mapstructure:"model"`
}

// WeatherConfig holds OpenWeatherMap settings.
type WeatherConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PersonasConfig points at the directory holding <language>.txt persona prompts.
type PersonasConfig struct {
	Dir string `mapstructure:"dir"`
}

// LexiconConfig optionally replaces the built-in city list.
type LexiconConfig struct {
	File string `mapstructure:"file"` // GeoNames cities*.txt or one name per line
}

// ChatLogConfig configures the append-only chat history file.
type ChatLogConfig struct {
	Path string `mapstructure:"path"`
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Backend string      `mapstructure:"backend"` // "piper"
	Piper   PiperConfig `mapstructure:"piper"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
//
// For a single Piper instance that serves all languages, set Endpoint.
// For per-language instances, set Endpoints which maps ISO-639-1 codes to
// individual Wyoming TCP endpoints. Endpoints takes precedence.
type PiperConfig struct {
	Endpoint  string            `mapstructure:"endpoint"`
	Endpoints map[string]string `mapstructure:"endpoints"`
	Voices    map[string]string `mapstructure:"voices"` // ISO-639-1 code -> Piper voice model name
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./vaani.yaml, ./configs/vaani.yaml, /etc/vaani/vaani.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.expose_errors", true)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8000)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("completion.backend", "openai")
	v.SetDefault("completion.openai.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("completion.openai.base_url", "")
	v.SetDefault("completion.openai.model", "gpt-3.5-turbo")
	v.SetDefault("completion.ollama.server_url", "http://localhost:11434")
	v.SetDefault("completion.ollama.model", "llama3")
	v.SetDefault("weather.api_key", "${WEATHER_API_KEY}")
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("weather.timeout", "10s")
	v.SetDefault("personas.dir", "personalities")
	v.SetDefault("lexicon.file", "")
	v.SetDefault("chatlog.path", "chat_history.txt")
	v.SetDefault("tts.enabled", false)
	v.SetDefault("tts.backend", "piper")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("vaani")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/vaani")
	}

	// Environment variables: VAANI_SERVER_HEALTH_PORT, VAANI_COMPLETION_BACKEND, etc.
	v.SetEnvPrefix("VAANI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional; env vars and defaults are sufficient.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Credentials are resolved but not validated: a missing key surfaces on
	// the first call to the provider that needs it.
	cfg.Completion.OpenAI.APIKey = resolveEnvRef(cfg.Completion.OpenAI.APIKey)
	cfg.Weather.APIKey = resolveEnvRef(cfg.Weather.APIKey)

	return &cfg, nil
}

// resolveEnvRef replaces a "${VAR_NAME}" value with the corresponding env var.
// An unset variable resolves to the empty string.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
