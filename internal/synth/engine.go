package synth

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dhaval-x96/orpheus-tts/internal/audio"
	"github.com/Dhaval-x96/orpheus-tts/internal/codec"
	"github.com/Dhaval-x96/orpheus-tts/internal/config"
	"github.com/Dhaval-x96/orpheus-tts/internal/observability"
	"github.com/Dhaval-x96/orpheus-tts/internal/ollama"
	"github.com/rs/zerolog"
)

// Request describes one synthesis invocation. Immutable once constructed;
// generation parameters arrive already defaulted and validated by the
// request boundary.
type Request struct {
	Text   string
	Voice  string
	Params ollama.Params
}

// Engine orchestrates text generation and audio encoding. One Engine is
// shared by all requests; it holds no per-request state. Codec availability
// is checked exactly once: the first caller performs the check, everyone
// else reuses the outcome.
type Engine struct {
	cfg    *config.Config
	gen    ollama.Generator
	enc    codec.Encoder
	logger zerolog.Logger

	readyOnce sync.Once
	readyErr  error
}

// NewEngine wires the synthesis engine from its collaborators
func NewEngine(cfg *config.Config, gen ollama.Generator, enc codec.Encoder) *Engine {
	return &Engine{
		cfg:    cfg,
		gen:    gen,
		enc:    enc,
		logger: observability.GetLogger().With().Str("component", "synth").Logger(),
	}
}

// Ready performs the one-shot codec availability check. A failed check is
// sticky: every later synthesis call fails fast with ErrCodecUnavailable
// without touching the text-generation backend.
func (e *Engine) Ready(ctx context.Context) error {
	e.readyOnce.Do(func() {
		if e.enc == nil {
			e.readyErr = ErrCodecUnavailable
			return
		}
		if err := e.enc.Ping(ctx); err != nil {
			e.logger.Error().Err(err).Msg("SNAC codec availability check failed")
			e.readyErr = fmt.Errorf("%w: %v", ErrCodecUnavailable, err)
		}
	})
	return e.readyErr
}

// SampleRate returns the configured output sample rate
func (e *Engine) SampleRate() int {
	return e.cfg.SampleRate
}

// Probe reports reachability of the text-generation backend. It never
// initiates the audio path and mutates no shared state.
func (e *Engine) Probe(ctx context.Context) ollama.Status {
	return e.gen.TestConnection(ctx)
}

// CheckCodec performs a live reachability check of the codec backend for
// readiness reporting. Unlike Ready, the result is not cached.
func (e *Engine) CheckCodec(ctx context.Context) error {
	if e.enc == nil {
		return ErrCodecUnavailable
	}
	return e.enc.Ping(ctx)
}

// Synthesize runs the complete non-streaming path: one blocking generation,
// one encode over the full text, quantized to PCM. An empty generation
// yields empty PCM and no error, there is simply no audio to synthesize.
func (e *Engine) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if err := e.Ready(ctx); err != nil {
		return nil, err
	}

	prompt := FormatPrompt(req.Text, req.Voice)
	e.logger.Info().Str("prompt", truncate(prompt, 50)).Msg("Generating complete audio")

	text, err := e.gen.Generate(ctx, prompt, req.Params)
	if err != nil {
		return nil, fmt.Errorf("generating text: %w", err)
	}
	if text == "" {
		e.logger.Warn().Msg("Generation returned no text, nothing to synthesize")
		return nil, nil
	}

	samples, err := e.enc.Encode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("encoding audio: %w", err)
	}

	pcm := audio.QuantizePCM16(samples)
	e.logger.Info().Int("pcm_bytes", len(pcm)).Msg("Generated audio")
	return pcm, nil
}

// SynthesizeStream starts the streaming pipeline. The returned stream is
// pull-based: audio is only synthesized as fast as the caller consumes it,
// and Close releases the backend connection on every exit path.
func (e *Engine) SynthesizeStream(ctx context.Context, req Request) (*AudioStream, error) {
	if err := e.Ready(ctx); err != nil {
		return nil, err
	}

	prompt := FormatPrompt(req.Text, req.Voice)
	e.logger.Info().Str("prompt", truncate(prompt, 50)).Msg("Streaming audio")

	frags, err := e.gen.GenerateStream(ctx, prompt, req.Params)
	if err != nil {
		return nil, fmt.Errorf("starting generation stream: %w", err)
	}

	return &AudioStream{
		ctx:        ctx,
		enc:        e.enc,
		frags:      frags,
		acc:        NewChunkAccumulator(e.cfg.ChunkThreshold),
		sampleRate: e.cfg.SampleRate,
		logger:     e.logger,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
