package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Dhaval-x96/orpheus-tts/internal/config"
	"github.com/Dhaval-x96/orpheus-tts/internal/observability"
	"github.com/Dhaval-x96/orpheus-tts/internal/ollama"
	"github.com/Dhaval-x96/orpheus-tts/internal/synth"
	"github.com/rs/zerolog"
)

// Server exposes the synthesis engine over HTTP
type Server struct {
	cfg    *config.Config
	engine *synth.Engine
	logger zerolog.Logger
}

// New creates the HTTP server around a shared engine
func New(cfg *config.Config, engine *synth.Engine) *Server {
	return &Server{
		cfg:    cfg,
		engine: engine,
		logger: observability.GetLogger().With().Str("component", "server").Logger(),
	}
}

// Routes builds the request mux for the TTS surface
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /tts", s.handleTTS)
	mux.HandleFunc("POST /tts/stream", s.handleTTSStream)
	mux.HandleFunc("GET /tts/ws", s.handleTTSWS)
	mux.HandleFunc("GET /voices", s.handleVoices)
	mux.HandleFunc("GET /emotions", s.handleEmotions)

	mux.HandleFunc("GET /health", observability.HealthCheckHandler(s.probeOllama))
	mux.HandleFunc("GET /ready", observability.ReadinessHandler(map[string]observability.HealthCheckFunc{
		"ollama": func(ctx context.Context) (bool, error) {
			status := s.engine.Probe(ctx)
			if status.Status != ollama.StatusConnected {
				return false, nil
			}
			return true, nil
		},
		"snac": func(ctx context.Context) (bool, error) {
			if err := s.engine.CheckCodec(ctx); err != nil {
				return false, err
			}
			return true, nil
		},
	}))

	return mux
}

func (s *Server) probeOllama(ctx context.Context) (string, string) {
	status := s.engine.Probe(ctx)
	return status.Status, status.Message
}

// handleVoices returns the available voice list
func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"english": synth.Voices})
}

// handleEmotions returns the available emotion tags, formatted as they
// would be used in prompts
func (s *Server) handleEmotions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, synth.EmotionTags)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
