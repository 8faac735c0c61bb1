package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Synthesis metrics
	activeSyntheses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orpheus_tts_active_syntheses",
		Help: "Number of synthesis requests currently in flight",
	})

	synthesisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orpheus_tts_requests_total",
		Help: "Total number of synthesis requests",
	}, []string{"mode", "status"}) // mode: "complete" or "stream"

	synthesisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orpheus_tts_synthesis_duration_seconds",
		Help:    "Duration of synthesis requests in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
	}, []string{"mode"})

	streamChunks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orpheus_tts_stream_chunks_total",
		Help: "Total number of PCM chunks emitted on streaming responses",
	})

	audioBytesOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orpheus_tts_audio_bytes_total",
		Help: "Total audio bytes written to clients",
	})

	// Ollama backend metrics
	ollamaRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orpheus_ollama_requests_total",
		Help: "Total number of Ollama generate requests",
	}, []string{"status"})

	ollamaLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orpheus_ollama_latency_seconds",
		Help:    "Ollama request latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
	})

	// Codec metrics
	codecEncodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orpheus_codec_encodes_total",
		Help: "Total number of SNAC encode calls",
	}, []string{"status"})

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orpheus_tts_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})
)

// Metrics tracks metrics for a single synthesis request
type Metrics struct {
	mode      string
	startTime time.Time
	mu        sync.Mutex
}

// NewSynthesisMetrics creates a metrics tracker for one synthesis request.
// mode is "complete" or "stream".
func NewSynthesisMetrics(mode string) *Metrics {
	m := &Metrics{
		mode:      mode,
		startTime: time.Now(),
	}
	activeSyntheses.Inc()
	return m
}

// RecordEnd records the completion of a synthesis request
func (m *Metrics) RecordEnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	activeSyntheses.Dec()
	synthesisDuration.WithLabelValues(m.mode).Observe(time.Since(m.startTime).Seconds())

	status := "success"
	if !success {
		status = "error"
	}
	synthesisRequests.WithLabelValues(m.mode, status).Inc()
}

// RecordChunk records one streamed PCM chunk
func (m *Metrics) RecordChunk(bytes int) {
	streamChunks.Inc()
	audioBytesOut.Add(float64(bytes))
}

// RecordAudioBytes records audio bytes written to a client
func (m *Metrics) RecordAudioBytes(bytes int64) {
	audioBytesOut.Add(float64(bytes))
}

// RecordError records an error by type and component
func (m *Metrics) RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordOllamaRequest records the outcome and latency of an Ollama call
func RecordOllamaRequest(success bool, latency time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	ollamaRequests.WithLabelValues(status).Inc()
	ollamaLatency.Observe(latency.Seconds())
}

// RecordCodecEncode records the outcome of a SNAC encode call
func RecordCodecEncode(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	codecEncodes.WithLabelValues(status).Inc()
}
