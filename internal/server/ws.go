package server

import (
	"io"
	"net/http"

	"github.com/Dhaval-x96/orpheus-tts/internal/observability"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect cross-origin; audio output is not
		// origin-sensitive
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// handleTTSWS streams synthesized audio over a WebSocket: one binary message
// for the WAV header, then one per PCM chunk, then a normal close. Parameters
// come from the query string since the upgrade handshake is a GET.
func (s *Server) handleTTSWS(w http.ResponseWriter, r *http.Request) {
	logger := observability.WithRequestID("")

	q := r.URL.Query()
	req, ok := s.buildRequest(w, ttsRequest{
		Text:  q.Get("text"),
		Voice: q.Get("voice"),
	})
	if !ok {
		return
	}

	stream, err := s.engine.SynthesizeStream(r.Context(), req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start streaming synthesis")
		writeSynthesisError(w, err)
		return
	}
	defer stream.Close()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error().Err(err).Msg("Streaming synthesis aborted")
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "synthesis failed"))
			return
		}
		if len(chunk) == 0 {
			continue
		}

		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			logger.Debug().Err(err).Msg("WebSocket client disconnected mid-stream")
			return
		}
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	logger.Info().Str("voice", req.Voice).Msg("Completed WebSocket audio stream")
}
