package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Dhaval-x96/orpheus-tts/internal/audio"
	"github.com/Dhaval-x96/orpheus-tts/internal/observability"
	"github.com/Dhaval-x96/orpheus-tts/internal/ollama"
	"github.com/Dhaval-x96/orpheus-tts/internal/synth"
)

// ttsRequest is the JSON request body for the synthesis endpoints. Generation
// parameters are optional and default from the process configuration.
type ttsRequest struct {
	Text          string   `json:"text"`
	Voice         string   `json:"voice"`
	Temperature   *float64 `json:"temperature"`
	TopP          *float64 `json:"top_p"`
	RepeatPenalty *float64 `json:"repeat_penalty"`
}

// parseRequest validates the request body once at the boundary and resolves
// every recognized option to a concrete value. Returns false after writing a
// 400 response when validation fails.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (synth.Request, bool) {
	var body ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return synth.Request{}, false
	}
	return s.buildRequest(w, body)
}

func (s *Server) buildRequest(w http.ResponseWriter, body ttsRequest) (synth.Request, bool) {
	if body.Text == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameter: 'text'")
		return synth.Request{}, false
	}

	voice := body.Voice
	if voice == "" {
		voice = synth.DefaultVoice
	}

	params := ollama.Params{
		Temperature:   s.cfg.Temperature,
		TopP:          s.cfg.TopP,
		RepeatPenalty: s.cfg.RepeatPenalty,
	}
	if body.Temperature != nil {
		if *body.Temperature < 0 {
			writeError(w, http.StatusBadRequest, "Invalid parameter: 'temperature' must be >= 0")
			return synth.Request{}, false
		}
		params.Temperature = *body.Temperature
	}
	if body.TopP != nil {
		if *body.TopP < 0 || *body.TopP > 1 {
			writeError(w, http.StatusBadRequest, "Invalid parameter: 'top_p' must be in [0,1]")
			return synth.Request{}, false
		}
		params.TopP = *body.TopP
	}
	if body.RepeatPenalty != nil {
		if *body.RepeatPenalty < 0 {
			writeError(w, http.StatusBadRequest, "Invalid parameter: 'repeat_penalty' must be >= 0")
			return synth.Request{}, false
		}
		params.RepeatPenalty = *body.RepeatPenalty
	}

	return synth.Request{Text: body.Text, Voice: voice, Params: params}, true
}

// writeSynthesisError maps engine failures to HTTP status codes
func writeSynthesisError(w http.ResponseWriter, err error) {
	var reqErr *ollama.RequestError
	switch {
	case errors.Is(err, synth.ErrCodecUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &reqErr):
		writeError(w, http.StatusBadGateway, "Error generating speech: "+err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Error generating speech: "+err.Error())
	}
}

// handleTTS converts text to speech and returns a complete WAV file
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	logger := observability.WithRequestID("")
	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}

	metrics := observability.NewSynthesisMetrics("complete")
	pcm, err := s.engine.Synthesize(r.Context(), req)
	if err != nil {
		logger.Error().Err(err).Msg("Synthesis failed")
		metrics.RecordError("synthesis", "engine")
		metrics.RecordEnd(false)
		writeSynthesisError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=tts_output_%d.wav", time.Now().Unix()))

	if len(pcm) == 0 {
		// Nothing to synthesize: successful response with no audio
		logger.Warn().Msg("No audio generated for request")
		w.WriteHeader(http.StatusOK)
		metrics.RecordEnd(true)
		return
	}

	// The complete container needs a seekable target for its exact length
	// fields; buffer it through a temp file and remove it on every exit path.
	tmp, err := os.CreateTemp("", "tts_output_*.wav")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create temp file")
		metrics.RecordEnd(false)
		writeError(w, http.StatusInternalServerError, "Error generating speech: "+err.Error())
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := audio.WriteFile(tmp, pcm, s.engine.SampleRate()); err != nil {
		logger.Error().Err(err).Msg("Failed to write WAV file")
		metrics.RecordEnd(false)
		writeError(w, http.StatusInternalServerError, "Error generating speech: "+err.Error())
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		logger.Error().Err(err).Msg("Failed to rewind temp file")
		metrics.RecordEnd(false)
		writeError(w, http.StatusInternalServerError, "Error generating speech: "+err.Error())
		return
	}

	n, err := io.Copy(w, tmp)
	if err != nil {
		// Headers are already sent; nothing left to do but log
		logger.Debug().Err(err).Msg("Client went away while sending audio")
	}
	metrics.RecordAudioBytes(n)
	metrics.RecordEnd(err == nil)
	logger.Info().Int64("bytes", n).Str("voice", req.Voice).Msg("Served complete audio")
}

// handleTTSStream streams audio chunks as they are generated: the WAV stream
// header first, then PCM chunks under chunked transfer encoding. The pipeline
// is pull-based, so a disconnected client stops synthesis promptly via the
// request context.
func (s *Server) handleTTSStream(w http.ResponseWriter, r *http.Request) {
	logger := observability.WithRequestID("")
	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}

	metrics := observability.NewSynthesisMetrics("stream")
	stream, err := s.engine.SynthesizeStream(r.Context(), req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start streaming synthesis")
		metrics.RecordError("synthesis", "engine")
		metrics.RecordEnd(false)
		writeSynthesisError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "audio/wav")
	flusher, _ := w.(http.Flusher)

	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The header and possibly chunks are already on the wire: emitted
			// output is not retracted, the stream just ends abnormally.
			logger.Error().Err(err).Msg("Streaming synthesis aborted")
			metrics.RecordError("synthesis", "pipeline")
			metrics.RecordEnd(false)
			return
		}

		if _, werr := w.Write(chunk); werr != nil {
			logger.Debug().Err(werr).Msg("Client disconnected mid-stream")
			metrics.RecordEnd(false)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		metrics.RecordChunk(len(chunk))
	}

	metrics.RecordEnd(true)
	logger.Info().Str("voice", req.Voice).Msg("Completed audio stream")
}
