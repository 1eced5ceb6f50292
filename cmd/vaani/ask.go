package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/vaani/internal/config"
	"github.com/nadzzz/vaani/internal/dispatch"
	"github.com/nadzzz/vaani/internal/language"
	"github.com/nadzzz/vaani/internal/message"
	grpctransport "github.com/nadzzz/vaani/internal/transport/grpc"
)

// askFunc answers one query, either in-process or over gRPC.
type askFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

func newAskCmd(configFile *string) *cobra.Command {
	var (
		lang    string
		server  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ask [text]",
		Short: "Ask the assistant from the terminal",
		Long: "Ask answers a single query given as arguments, or reads queries line by line\n" +
			"from stdin when no text is given. Without --server the configured backends\n" +
			"are used in-process; with --server the query goes to a running vaani over gRPC.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := language.Parse(lang); !ok {
				return fmt.Errorf("unsupported language %q", lang)
			}

			ask, closeFn, err := newAsker(*configFile, server)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				return askOnce(cmd.Context(), ask, out, strings.Join(args, " "), lang, timeout)
			}
			return askLoop(cmd.Context(), ask, cmd.InOrStdin(), out, lang, timeout)
		},
	}

	cmd.Flags().StringVarP(&lang, "language", "l", string(language.English), "reply language: punjabi, marathi, gujarati, hindi, english")
	cmd.Flags().StringVar(&server, "server", "", "gRPC address of a running vaani (e.g. localhost:50051)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "per-query timeout")
	return cmd
}

func newAsker(configFile, server string) (askFunc, func(), error) {
	if server != "" {
		conn, err := grpc.NewClient(server, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %w", server, err)
		}
		ask := func(ctx context.Context, req *message.Request) (*message.Response, error) {
			resp, err := grpctransport.Ask(ctx, conn, req)
			if err != nil {
				if st, ok := status.FromError(err); ok {
					return nil, errors.New(st.Message())
				}
			}
			return resp, err
		}
		return ask, func() { _ = conn.Close() }, nil
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	// Keep the terminal for answers; only warnings and errors go to the log.
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "text"
	config.SetupLogging(cfg.Logging)

	svc, err := buildService(cfg)
	if err != nil {
		return nil, nil, err
	}
	ask := func(ctx context.Context, req *message.Request) (*message.Response, error) {
		resp, err := svc.Handle(ctx, req)
		if err != nil {
			return nil, errors.New(dispatch.Detail(err, true))
		}
		return resp, nil
	}
	return ask, svc.Close, nil
}

func askOnce(ctx context.Context, ask askFunc, out io.Writer, text, lang string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := ask(ctx, &message.Request{Text: text, Language: lang, ReceivedAt: time.Now()})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, resp.Response)
	return nil
}

func askLoop(ctx context.Context, ask askFunc, in io.Reader, out io.Writer, lang string, timeout time.Duration) error {
	prompt := color.New(color.FgCyan, color.Bold).SprintFunc()
	answer := color.New(color.FgGreen).SprintFunc()
	failure := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(out, "vaani (%s). Type /exit to quit.\n", prompt(lang))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		switch text {
		case "":
			continue
		case "/exit", "exit", "quit":
			return nil
		}

		var buf strings.Builder
		if err := askOnce(ctx, ask, &buf, text, lang, timeout); err != nil {
			slog.Debug("ask failed", "error", err)
			fmt.Fprintln(out, failure("error: "+err.Error()))
			continue
		}
		fmt.Fprint(out, answer(buf.String()))
	}
}
