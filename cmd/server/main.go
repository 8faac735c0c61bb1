package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dhaval-x96/orpheus-tts/internal/codec"
	"github.com/Dhaval-x96/orpheus-tts/internal/config"
	"github.com/Dhaval-x96/orpheus-tts/internal/observability"
	"github.com/Dhaval-x96/orpheus-tts/internal/ollama"
	"github.com/Dhaval-x96/orpheus-tts/internal/server"
	"github.com/Dhaval-x96/orpheus-tts/internal/synth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("ollama_api_url", cfg.OllamaAPIURL).
		Str("model", cfg.ModelName).
		Float64("temperature", cfg.Temperature).
		Float64("top_p", cfg.TopP).
		Float64("repeat_penalty", cfg.RepeatPenalty).
		Int("sample_rate", cfg.SampleRate).
		Msg("Orpheus TTS Service starting")

	// Build the shared engine: one Ollama client and one codec client for the
	// life of the process
	generator := ollama.NewClient(cfg)
	snac, err := codec.NewSNACClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid SNAC codec configuration")
	}
	engine := synth.NewEngine(cfg, generator, snac)

	// One-shot codec availability check. A failure does not stop the server:
	// synthesis requests fail closed while /health and /voices keep serving.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if err := engine.Ready(startupCtx); err != nil {
		logger.Error().Err(err).Msg("SNAC codec unavailable, synthesis requests will be rejected")
	}
	cancelStartup()

	mux := server.New(cfg, engine).Routes()

	// Metrics endpoint (Prometheus)
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	// Streaming responses can outlive any fixed write timeout, so only the
	// read side is bounded here
	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
