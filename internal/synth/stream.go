package synth

import (
	"context"
	"fmt"
	"io"

	"github.com/Dhaval-x96/orpheus-tts/internal/audio"
	"github.com/Dhaval-x96/orpheus-tts/internal/codec"
	"github.com/Dhaval-x96/orpheus-tts/internal/ollama"
	"github.com/rs/zerolog"
)

// AudioStream is the streaming synthesis pipeline for one request. It is a
// pull-based iterator: the first Next returns the WAV stream header, later
// calls pull text fragments, accumulate them, and emit one PCM chunk per
// flush. Next returns io.EOF after the final drain flush. Errors are sticky;
// chunks already handed out are never retracted.
//
// Not safe for concurrent use: one stream per request, driven by one
// consumer.
type AudioStream struct {
	ctx        context.Context
	enc        codec.Encoder
	frags      ollama.FragmentStream
	acc        *ChunkAccumulator
	sampleRate int
	logger     zerolog.Logger

	headerSent bool
	finished   bool
	err        error
}

// Next returns the next output item: header bytes first, then PCM chunks in
// order, then io.EOF.
func (s *AudioStream) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.headerSent {
		s.headerSent = true
		return audio.StreamHeader(s.sampleRate), nil
	}
	if s.finished {
		return nil, io.EOF
	}

	for {
		frag, err := s.frags.Next()
		if err == io.EOF {
			return s.drain()
		}
		if err != nil {
			return nil, s.fail(fmt.Errorf("pulling fragment: %w", err))
		}

		s.acc.Add(frag.Content)
		if frag.Final {
			return s.drain()
		}
		if !s.acc.Ready() {
			continue
		}

		chunk, err := s.flush()
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			continue
		}
		return chunk, nil
	}
}

// drain performs the final flush once the fragment source has completed. Any
// non-empty remainder is synthesized even below the threshold.
func (s *AudioStream) drain() ([]byte, error) {
	s.finished = true
	_ = s.frags.Close()

	if s.acc.Len() == 0 {
		return nil, io.EOF
	}
	chunk, err := s.flush()
	if err != nil {
		return nil, err
	}
	if len(chunk) == 0 {
		return nil, io.EOF
	}
	return chunk, nil
}

// flush encodes and quantizes the buffered text as one PCM chunk
func (s *AudioStream) flush() ([]byte, error) {
	text := s.acc.Flush()
	samples, err := s.enc.Encode(s.ctx, text)
	if err != nil {
		return nil, s.fail(fmt.Errorf("encoding audio chunk: %w", err))
	}
	return audio.QuantizePCM16(samples), nil
}

// fail records a terminal error, releases the transport connection and makes
// every later Next return the same error.
func (s *AudioStream) fail(err error) error {
	s.err = err
	_ = s.frags.Close()
	s.logger.Error().Err(err).Msg("Streaming synthesis failed")
	return err
}

// Close releases the underlying generation stream. Safe to call after
// exhaustion or failure.
func (s *AudioStream) Close() error {
	return s.frags.Close()
}
