// Package weather answers "what is the temperature in <city>" from the
// OpenWeatherMap current-weather API and renders the answer as a sentence in
// the caller's language.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nadzzz/vaani/internal/config"
	"github.com/nadzzz/vaani/internal/language"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// UnavailableMessage is returned, in every language, when the provider
// answers with a non-success status.
const UnavailableMessage = "Unable to fetch weather data for the given city."

// sentences renders the temperature answer for each supported language.
// temp is the provider's numeric literal, printed as sent.
var sentences = map[language.Language]func(city, temp string) string{
	language.Punjabi: func(city, temp string) string {
		return fmt.Sprintf("%s ਵਿੱਚ ਤਾਪਮਾਨ %s° celcius ਹੈ।", city, temp)
	},
	language.Marathi: func(city, temp string) string {
		return fmt.Sprintf("%s मध्ये तापमान %s° सेल्सियस आहे.", city, temp)
	},
	language.Gujarati: func(city, temp string) string {
		return fmt.Sprintf("%s શહેરમાં તાપમાન %s° celcius છે।", city, temp)
	},
	language.Hindi: func(city, temp string) string {
		return fmt.Sprintf("%s में तापमान %s°सेल्सियस है।", city, temp)
	},
	language.English: func(city, temp string) string {
		return fmt.Sprintf("The temperature in %s is %s° Celsius.", city, temp)
	},
}

// Sentence formats the temperature answer for lang.
func Sentence(lang language.Language, city, temp string) (string, error) {
	render, ok := sentences[lang]
	if !ok {
		return "", fmt.Errorf("no weather sentence for language %q", lang)
	}
	return render(city, temp), nil
}

// Client queries the weather provider.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a weather client from config.
func New(cfg config.WeatherConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type currentWeather struct {
	Main struct {
		Temp json.Number `json:"temp"`
	} `json:"main"`
}

// Lookup fetches the current temperature for city and returns the answer in
// lang. A non-success status from the provider yields UnavailableMessage;
// transport failures and unreadable bodies are returned as errors.
func (c *Client) Lookup(ctx context.Context, city string, lang language.Language) (string, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating weather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("weather provider refused lookup",
			"city", city, "status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return UnavailableMessage, nil
	}

	var cw currentWeather
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&cw); err != nil {
		return "", fmt.Errorf("decoding weather response: %w", err)
	}
	if cw.Main.Temp == "" {
		return "", fmt.Errorf("weather response for %q has no main.temp", city)
	}

	slog.Debug("weather lookup complete", "city", city, "temp", cw.Main.Temp.String())
	return Sentence(lang, city, cw.Main.Temp.String())
}
