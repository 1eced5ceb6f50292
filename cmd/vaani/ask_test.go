package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/nadzzz/vaani/internal/message"
)

func echoAsk(ctx context.Context, req *message.Request) (*message.Response, error) {
	if req.Text == "fail" {
		return nil, errors.New("An error occurred: boom")
	}
	return &message.Response{Response: req.Language + ": " + req.Text}, nil
}

func TestAskOnce(t *testing.T) {
	var out strings.Builder
	if err := askOnce(context.Background(), echoAsk, &out, "Tell me a joke", "english", time.Second); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.String() != "english: Tell me a joke\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestAskLoop(t *testing.T) {
	color.NoColor = true

	in := strings.NewReader("taapmaan Pune\n\nfail\n/exit\nnever asked\n")
	var out strings.Builder
	if err := askLoop(context.Background(), echoAsk, in, &out, "marathi", time.Second); err != nil {
		t.Fatalf("loop: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "marathi: taapmaan Pune\n") {
		t.Fatalf("missing answer in %q", got)
	}
	if !strings.Contains(got, "error: An error occurred: boom") {
		t.Fatalf("missing error in %q", got)
	}
	if strings.Contains(got, "never asked") {
		t.Fatalf("loop did not stop at /exit: %q", got)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "ask"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
	ask, _, _ := root.Find([]string{"ask"})
	if f := ask.Flags().Lookup("language"); f == nil || f.DefValue != "english" {
		t.Fatalf("ask --language default should be english")
	}
}
