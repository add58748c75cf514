package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viant/gpuslot"
	"github.com/viant/gpuslot/endpoint"
)

const version = "0.1.0"

func main() {
	configURL := flag.String("config", "", "config URL (any afs supported scheme)")
	numGPUs := flag.Int("num_gpus", -1, "number of gpus, 0 detects devices with nvidia-smi")
	addr := flag.String("addr", "", "HTTP listen address, overrides http.addr")
	traceFile := flag.String("trace", "", "write OpenTelemetry spans to file")
	logLevel := flag.String("log_level", "info", "debug|info|warn|error")
	flag.Parse()

	var lvl slog.Level
	switch *logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	config := gpuslot.DefaultConfig()
	if *configURL != "" {
		var err error
		if config, err = gpuslot.LoadConfig(ctx, *configURL); err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
	}
	if *addr != "" {
		config.HTTP.Addr = *addr
	}
	options := []gpuslot.Option{gpuslot.WithConfig(config), gpuslot.WithLogger(logger)}
	if *numGPUs >= 0 {
		options = append(options, gpuslot.WithSlots(*numGPUs))
	}
	if *traceFile != "" {
		options = append(options, gpuslot.WithTracing("gpuslot", version, *traceFile))
	}
	service, err := gpuslot.New(ctx, options...)
	if err != nil {
		slog.Error("init", "error", err)
		os.Exit(1)
	}
	if err = service.Start(ctx); err != nil {
		slog.Error("start", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              config.HTTP.Addr,
		Handler:           endpoint.New(service, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		slog.Info("server starting", "addr", config.HTTP.Addr, "slots", service.Size())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	if err := service.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}
