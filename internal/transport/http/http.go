// Package http implements the HTTP transport for vaani.
//
// It exposes POST /assistant for text answers, POST /assistant/speech for
// spoken answers, and the Swagger UI under /swagger/.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/vaani/docs"
	"github.com/nadzzz/vaani/internal/dispatch"
	"github.com/nadzzz/vaani/internal/message"
	"github.com/nadzzz/vaani/internal/transport"
)

const maxBodyBytes = 1 << 20

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port         int
	exposeErrors bool

	mu     sync.Mutex // guards server and closed
	server *http.Server
	closed bool
}

// New creates a new HTTP transport on the given port. exposeErrors controls
// whether 500 responses carry the underlying error message.
func New(port int, exposeErrors bool) *Transport {
	return &Transport{port: port, exposeErrors: exposeErrors}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler builds the HTTP routes around svc.
func (t *Transport) Handler(svc transport.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /assistant", func(w http.ResponseWriter, r *http.Request) {
		t.handleAssistant(w, r, svc)
	})
	mux.HandleFunc("POST /assistant/speech", func(w http.ResponseWriter, r *http.Request) {
		t.handleSpeech(w, r, svc)
	})

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// Listen starts the HTTP server and routes incoming requests to svc.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.Handler(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.server = srv
	t.mu.Unlock()

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// assistantRequest mirrors message.Request with pointers so missing fields
// can be told apart from empty ones.
type assistantRequest struct {
	Text     *string `json:"text"`
	Language *string `json:"language"`
}

func decodeRequest(r *http.Request) (*message.Request, error) {
	var body assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if body.Text == nil {
		return nil, errors.New("field required: text")
	}
	if body.Language == nil {
		return nil, errors.New("field required: language")
	}
	return &message.Request{
		Text:       *body.Text,
		Language:   *body.Language,
		ReceivedAt: time.Now(),
	}, nil
}

// handleAssistant processes a POST /assistant request.
//
// @Summary     Ask the assistant
// @Description Answers temperature questions that name a known city from the weather provider,
// @Description and every other query from the chat completion backend under the language's persona.
// @Tags        assistant
// @Accept      json
// @Produce     json
// @Param       request  body      message.Request        true  "Query text and reply language"
// @Success     200      {object}  message.Response       "Assistant answer"
// @Failure     400      {object}  message.ErrorResponse  "Unsupported language"
// @Failure     422      {object}  message.ErrorResponse  "Malformed request body"
// @Failure     500      {object}  message.ErrorResponse  "Upstream or internal failure"
// @Router      /assistant [post]
func (t *Transport) handleAssistant(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req, err := decodeRequest(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, message.ErrorResponse{Detail: "Invalid request: " + err.Error()})
		return
	}

	resp, err := svc.Handle(r.Context(), req)
	if err != nil {
		t.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSpeech processes a POST /assistant/speech request.
//
// @Summary     Ask the assistant and hear the answer
// @Description Same routing as /assistant; the answer is synthesized in the request language.
// @Tags        assistant
// @Accept      json
// @Produce     audio/wav
// @Param       request  body      message.Request        true  "Query text and reply language"
// @Success     200      {file}    binary                 "WAV audio"
// @Header      200      {string}  X-Vaani-Route          "weather or chat"
// @Header      200      {integer} X-Sample-Rate          "Sample rate in Hz"
// @Failure     400      {object}  message.ErrorResponse  "Unsupported language"
// @Failure     422      {object}  message.ErrorResponse  "Malformed request body"
// @Failure     500      {object}  message.ErrorResponse  "Upstream or internal failure"
// @Failure     503      {object}  message.ErrorResponse  "Speech synthesis is disabled"
// @Router      /assistant/speech [post]
func (t *Transport) handleSpeech(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req, err := decodeRequest(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, message.ErrorResponse{Detail: "Invalid request: " + err.Error()})
		return
	}

	resp, audio, err := svc.Speak(r.Context(), req)
	if err != nil {
		t.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", audio.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio.Audio)))
	w.Header().Set("X-Vaani-Route", string(resp.Route))
	if audio.SampleRate > 0 {
		w.Header().Set("X-Sample-Rate", strconv.Itoa(audio.SampleRate))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio.Audio)
}

func (t *Transport) writeError(w http.ResponseWriter, err error) {
	status := statusFor(dispatch.Classify(err))
	if status >= http.StatusInternalServerError {
		slog.Error("assistant request failed", "status", status, "error", err)
	}
	writeJSON(w, status, message.ErrorResponse{Detail: dispatch.Detail(err, t.exposeErrors)})
}

func statusFor(kind dispatch.Kind) int {
	switch kind {
	case dispatch.KindUnsupportedLanguage:
		return http.StatusBadRequest
	case dispatch.KindInvalidRequest:
		return http.StatusUnprocessableEntity
	case dispatch.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Close gracefully shuts down the HTTP server. A Listen call that has not
// started yet returns without serving.
func (t *Transport) Close() error {
	t.mu.Lock()
	srv := t.server
	t.closed = true
	t.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
