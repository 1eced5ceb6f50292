package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nadzzz/vaani/internal/config"
	"github.com/nadzzz/vaani/internal/health"
	"github.com/nadzzz/vaani/internal/transport"
	grpctransport "github.com/nadzzz/vaani/internal/transport/grpc"
	httptransport "github.com/nadzzz/vaani/internal/transport/http"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the assistant service (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configFile)
		},
	}
}

func runServe(parent context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("vaani starting", "version", version)

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	var transports []transport.Transport
	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port, cfg.Server.ExposeErrors))
	}
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port, cfg.Server.ExposeErrors))
	}
	if len(transports) == 0 {
		return errors.New("no transports enabled, enable http or grpc in config")
	}

	healthServer := health.New(cfg.Server.HealthPort, version)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, svc); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
				cancel()
			}
		}(t)
	}

	healthServer.SetReady(true)
	slog.Info("vaani ready",
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	<-ctx.Done()
	healthServer.SetReady(false)
	slog.Info("shutdown signal received, draining...")

	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("vaani stopped")
	return nil
}
