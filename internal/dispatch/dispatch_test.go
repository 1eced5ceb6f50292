package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nadzzz/vaani/internal/chatlog"
	"github.com/nadzzz/vaani/internal/intent"
	"github.com/nadzzz/vaani/internal/language"
	"github.com/nadzzz/vaani/internal/message"
	"github.com/nadzzz/vaani/internal/persona"
	"github.com/nadzzz/vaani/internal/tts"
	"github.com/nadzzz/vaani/internal/weather"
)

type fakeWeather struct {
	mu    sync.Mutex
	calls []string
	temp  string
	err   error
}

func (f *fakeWeather) Lookup(ctx context.Context, city string, lang language.Language) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, city)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return weather.Sentence(lang, city, f.temp)
}

type fakeCompleter struct {
	mu      sync.Mutex
	persona string
	text    string
	calls   int
	reply   string
	err     error
}

func (f *fakeCompleter) Name() string { return "fake" }
func (f *fakeCompleter) Close() error { return nil }
func (f *fakeCompleter) Complete(ctx context.Context, persona, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.persona, f.text = persona, text
	return f.reply, f.err
}

type failingLog struct{}

func (failingLog) Append(chatlog.Entry) error { return errors.New("disk full") }

type fakeSynth struct {
	lang string
	err  error
}

func (f *fakeSynth) Close() error { return nil }
func (f *fakeSynth) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	f.lang = opts.Language
	if f.err != nil {
		return nil, f.err
	}
	return &tts.SynthesizeResult{Audio: []byte("RIFF" + text), ContentType: "audio/wav"}, nil
}

type fixture struct {
	d       *Dispatcher
	weather *fakeWeather
	chat    *fakeCompleter
	logPath string
}

func newFixture(t *testing.T, synth tts.Synthesizer) *fixture {
	t.Helper()
	prompts := make(map[language.Language]string)
	for _, l := range language.All() {
		prompts[l] = "persona-" + l.String()
	}
	personas, err := persona.New(prompts)
	if err != nil {
		t.Fatalf("personas: %v", err)
	}
	logPath := filepath.Join(t.TempDir(), "chat_history.txt")
	log, err := chatlog.NewFileLogger(logPath)
	if err != nil {
		t.Fatalf("chat log: %v", err)
	}
	w := &fakeWeather{temp: "29.5"}
	c := &fakeCompleter{reply: "Why did..."}
	d := New(intent.NewExtractor([]string{"Mumbai", "Paris"}), w, personas, c, log, synth)
	return &fixture{d: d, weather: w, chat: c, logPath: logPath}
}

func (f *fixture) logContents(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestHandleWeather(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.d.Handle(context.Background(), &message.Request{Text: "What is taapmaan in Mumbai?", Language: "hindi"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Response != "Mumbai में तापमान 29.5°सेल्सियस है।" {
		t.Fatalf("unexpected response %q", resp.Response)
	}
	if resp.Route != message.RouteWeather {
		t.Fatalf("want weather route, got %q", resp.Route)
	}
	if f.chat.calls != 0 {
		t.Fatalf("chat backend should not be called for weather queries")
	}
	want := "User: What is taapmaan in Mumbai?\nAssistant: Mumbai में तापमान 29.5°सेल्सियस है।\n\n"
	if got := f.logContents(t); got != want {
		t.Fatalf("want log %q, got %q", want, got)
	}
}

func TestHandleChat(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.d.Handle(context.Background(), &message.Request{Text: "Tell me a joke", Language: "english"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Response != "Why did..." || resp.Route != message.RouteChat {
		t.Fatalf("unexpected response %+v", resp)
	}
	if f.chat.persona != "persona-english" || f.chat.text != "Tell me a joke" {
		t.Fatalf("unexpected completion input: %q / %q", f.chat.persona, f.chat.text)
	}
	if len(f.weather.calls) != 0 {
		t.Fatalf("weather should not be called for chat queries")
	}
	if got := f.logContents(t); got != "User: Tell me a joke\nAssistant: Why did...\n\n" {
		t.Fatalf("unexpected log %q", got)
	}
}

func TestHandleCityWithoutKeywordGoesToChat(t *testing.T) {
	f := newFixture(t, nil)

	if _, err := f.d.Handle(context.Background(), &message.Request{Text: "I love Paris", Language: "english"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if f.chat.calls != 1 || len(f.weather.calls) != 0 {
		t.Fatalf("want chat route, got chat=%d weather=%d", f.chat.calls, len(f.weather.calls))
	}
}

func TestHandleUnsupportedLanguage(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.d.Handle(context.Background(), &message.Request{Text: "temperature in Paris", Language: "klingon"})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("want ErrUnsupportedLanguage, got %v", err)
	}
	if f.chat.calls != 0 || len(f.weather.calls) != 0 {
		t.Fatalf("no upstream call expected")
	}
	if got := f.logContents(t); got != "" {
		t.Fatalf("rejected request was logged: %q", got)
	}
}

func TestHandleEmptyText(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.d.Handle(context.Background(), &message.Request{Text: "", Language: "english"})
	if !errors.Is(err, ErrEmptyText) {
		t.Fatalf("want ErrEmptyText, got %v", err)
	}
	if f.chat.calls != 0 {
		t.Fatalf("want no completion calls, got %d", f.chat.calls)
	}
}

func TestHandleWhitespaceTextGoesToChat(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.d.Handle(context.Background(), &message.Request{Text: "   ", Language: "english"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Route != message.RouteChat {
		t.Fatalf("want chat route, got %s", resp.Route)
	}
	if f.chat.text != "   " {
		t.Fatalf("want text passed through unchanged, got %q", f.chat.text)
	}
}

func TestHandleUpstreamFailures(t *testing.T) {
	f := newFixture(t, nil)
	f.weather.err = errors.New("connection refused")
	f.chat.err = errors.New("rate limited")

	_, err := f.d.Handle(context.Background(), &message.Request{Text: "temperature in Paris", Language: "english"})
	var up *UpstreamError
	if !errors.As(err, &up) || up.Service != "weather" {
		t.Fatalf("want weather upstream error, got %v", err)
	}

	_, err = f.d.Handle(context.Background(), &message.Request{Text: "hello", Language: "english"})
	if !errors.As(err, &up) || up.Service != "completion" {
		t.Fatalf("want completion upstream error, got %v", err)
	}

	if got := f.logContents(t); got != "" {
		t.Fatalf("failed exchanges must not be logged: %q", got)
	}
}

func TestHandleLogFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t, nil)
	f.d.log = failingLog{}

	resp, err := f.d.Handle(context.Background(), &message.Request{Text: "hello", Language: "english"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Response != "Why did..." {
		t.Fatalf("unexpected response %q", resp.Response)
	}
}

func TestHandleAssignsRequestID(t *testing.T) {
	f := newFixture(t, nil)
	req := &message.Request{Text: "hello", Language: "english"}
	if _, err := f.d.Handle(context.Background(), req); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(req.ID) != 36 {
		t.Fatalf("want uuid request id, got %q", req.ID)
	}
}

func TestHandleConcurrentRequestsLogEveryEntry(t *testing.T) {
	f := newFixture(t, nil)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.d.Handle(context.Background(), &message.Request{Text: "temperature in Mumbai", Language: "english"}); err != nil {
				t.Errorf("handle: %v", err)
			}
		}()
	}
	wg.Wait()

	entry := "User: temperature in Mumbai\nAssistant: The temperature in Mumbai is 29.5° Celsius.\n\n"
	if got := f.logContents(t); got != strings.Repeat(entry, n) {
		t.Fatalf("log has %d entries or is corrupted", strings.Count(got, "User: "))
	}
}

func TestSpeak(t *testing.T) {
	synth := &fakeSynth{}
	f := newFixture(t, synth)

	resp, audio, err := f.d.Speak(context.Background(), &message.Request{Text: "taapmaan Mumbai", Language: "hindi"})
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if synth.lang != "hi" {
		t.Fatalf("want hi voice language, got %q", synth.lang)
	}
	if string(audio.Audio) != "RIFF"+resp.Response {
		t.Fatalf("audio does not carry response text")
	}
}

func TestSpeakDisabled(t *testing.T) {
	f := newFixture(t, nil)
	if _, _, err := f.d.Speak(context.Background(), &message.Request{Text: "hi", Language: "english"}); !errors.Is(err, ErrSpeechDisabled) {
		t.Fatalf("want ErrSpeechDisabled, got %v", err)
	}
}

func TestSpeakValidatesBeforeDisabled(t *testing.T) {
	f := newFixture(t, nil)

	_, _, err := f.d.Speak(context.Background(), &message.Request{Text: "hi", Language: "klingon"})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("want ErrUnsupportedLanguage, got %v", err)
	}
	if Classify(err) != KindUnsupportedLanguage {
		t.Fatalf("want unsupported language kind, got %v", Classify(err))
	}

	_, _, err = f.d.Speak(context.Background(), &message.Request{Text: "", Language: "english"})
	if !errors.Is(err, ErrEmptyText) {
		t.Fatalf("want ErrEmptyText, got %v", err)
	}
}

func TestSpeakSynthesisFailure(t *testing.T) {
	f := newFixture(t, &fakeSynth{err: errors.New("piper down")})
	_, _, err := f.d.Speak(context.Background(), &message.Request{Text: "hi", Language: "english"})
	var up *UpstreamError
	if !errors.As(err, &up) || up.Service != "tts" {
		t.Fatalf("want tts upstream error, got %v", err)
	}
}

func TestClassifyAndDetail(t *testing.T) {
	upstream := &UpstreamError{Service: "completion", Err: errors.New("boom")}
	tests := []struct {
		err      error
		kind     Kind
		exposed  string
		redacted string
	}{
		{ErrUnsupportedLanguage, KindUnsupportedLanguage, "Unsupported language", "Unsupported language"},
		{ErrEmptyText, KindInvalidRequest, "Invalid request: text must not be empty", "Invalid request: text must not be empty"},
		{ErrSpeechDisabled, KindUnavailable, "Speech synthesis is disabled", "Speech synthesis is disabled"},
		{upstream, KindUpstream, "An error occurred: completion: boom", "An error occurred: internal error"},
		{errors.New("oops"), KindInternal, "An error occurred: oops", "An error occurred: internal error"},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.kind {
			t.Fatalf("Classify(%v): want %d, got %d", tt.err, tt.kind, got)
		}
		if got := Detail(tt.err, true); got != tt.exposed {
			t.Fatalf("Detail(%v, true): want %q, got %q", tt.err, tt.exposed, got)
		}
		if got := Detail(tt.err, false); got != tt.redacted {
			t.Fatalf("Detail(%v, false): want %q, got %q", tt.err, tt.redacted, got)
		}
	}
}
