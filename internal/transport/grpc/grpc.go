// Package grpc implements the gRPC transport for vaani.
//
// The vaani.v1.Assistant service has two unary methods, Ask and Speak,
// mirroring POST /assistant and POST /assistant/speech. Messages are JSON
// encoded (content subtype "json"); use the Ask and Speak helpers or pass
// grpc.CallContentSubtype("json") when invoking the methods directly.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/vaani/internal/dispatch"
	"github.com/nadzzz/vaani/internal/message"
	"github.com/nadzzz/vaani/internal/transport"
)

const serviceName = "vaani.v1.Assistant"

// SpeakResponse is the reply of the Speak method. Audio is base64 in JSON.
type SpeakResponse struct {
	Response    string `json:"response"`
	Audio       []byte `json:"audio"`
	ContentType string `json:"content_type"`
	SampleRate  int    `json:"sample_rate"`
}

// AssistantServer is the server API of vaani.v1.Assistant.
type AssistantServer interface {
	Ask(context.Context, *message.Request) (*message.Response, error)
	Speak(context.Context, *message.Request) (*SpeakResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ask", Handler: askHandler},
		{MethodName: "Speak", Handler: speakHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vaani/v1/assistant.proto",
}

func askHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.Request)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssistantServer).Ask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Ask"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssistantServer).Ask(ctx, req.(*message.Request))
	}
	return interceptor(ctx, in, info, handler)
}

func speakHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.Request)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssistantServer).Speak(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Speak"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssistantServer).Speak(ctx, req.(*message.Request))
	}
	return interceptor(ctx, in, info, handler)
}

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port         int
	exposeErrors bool

	mu     sync.Mutex // guards server and closed
	server *grpc.Server
	closed bool
}

// New creates a new gRPC transport on the given port.
func New(port int, exposeErrors bool) *Transport {
	return &Transport{port: port, exposeErrors: exposeErrors}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to svc.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, svc)
}

// Serve runs the server on lis until ctx is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, svc transport.Service) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary))
	srv.RegisterService(&serviceDesc, &server{svc: svc, expose: t.exposeErrors})

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return lis.Close()
	}
	t.server = srv
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		srv.GracefulStop()
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Close gracefully stops the gRPC server. A Serve call that has not
// started yet returns without serving.
func (t *Transport) Close() error {
	t.mu.Lock()
	srv := t.server
	t.closed = true
	t.mu.Unlock()

	if srv != nil {
		srv.GracefulStop()
	}
	return nil
}

type server struct {
	svc    transport.Service
	expose bool
}

func (s *server) Ask(ctx context.Context, req *message.Request) (*message.Response, error) {
	req.ReceivedAt = time.Now()
	resp, err := s.svc.Handle(ctx, req)
	if err != nil {
		return nil, s.status(err)
	}
	return resp, nil
}

func (s *server) Speak(ctx context.Context, req *message.Request) (*SpeakResponse, error) {
	req.ReceivedAt = time.Now()
	resp, audio, err := s.svc.Speak(ctx, req)
	if err != nil {
		return nil, s.status(err)
	}
	return &SpeakResponse{
		Response:    resp.Response,
		Audio:       audio.Audio,
		ContentType: audio.ContentType,
		SampleRate:  audio.SampleRate,
	}, nil
}

func (s *server) status(err error) error {
	return status.Error(codeFor(dispatch.Classify(err)), dispatch.Detail(err, s.expose))
}

func codeFor(kind dispatch.Kind) codes.Code {
	switch kind {
	case dispatch.KindUnsupportedLanguage, dispatch.KindInvalidRequest:
		return codes.InvalidArgument
	case dispatch.KindUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	level := slog.LevelDebug
	if code == codes.Internal {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "grpc call",
		"method", info.FullMethod,
		"code", code.String(),
		"duration", time.Since(start),
		"error", err,
	)
	return resp, err
}

// Ask calls vaani.v1.Assistant/Ask on conn.
func Ask(ctx context.Context, conn grpc.ClientConnInterface, req *message.Request) (*message.Response, error) {
	out := new(message.Response)
	if err := conn.Invoke(ctx, "/"+serviceName+"/Ask", req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// Speak calls vaani.v1.Assistant/Speak on conn.
func Speak(ctx context.Context, conn grpc.ClientConnInterface, req *message.Request) (*SpeakResponse, error) {
	out := new(SpeakResponse)
	if err := conn.Invoke(ctx, "/"+serviceName+"/Speak", req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}
