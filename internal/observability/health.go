package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status       string                      `json:"status"`
	Service      string                      `json:"service"`
	Version      string                      `json:"version"`
	Timestamp    string                      `json:"timestamp"`
	OllamaStatus string                      `json:"ollama_status,omitempty"`
	Message      string                      `json:"message,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the status of a dependency
type DependencyStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// ProbeFunc reports the reachability of the text-generation backend.
// It must not return an error; failures are encoded in the status/message pair.
type ProbeFunc func(ctx context.Context) (status, message string)

// HealthCheckFunc checks a single dependency for readiness
type HealthCheckFunc func(ctx context.Context) (bool, error)

// HealthCheckHandler handles health check requests by exercising the
// text-generation backend with a trivial prompt. The audio path is never
// touched here.
func HealthCheckHandler(probe ProbeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ollamaStatus, message := probe(r.Context())

		status := HealthStatus{
			Status:       "healthy",
			Service:      "orpheus-tts",
			Version:      "1.0.0",
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			OllamaStatus: ollamaStatus,
			Message:      message,
		}

		code := http.StatusOK
		if ollamaStatus != "connected" {
			status.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}
}

// ReadinessHandler handles readiness check requests. Each named check is run
// with a shared timeout and reported individually so operators can tell which
// backend (Ollama, SNAC codec) is failing.
func ReadinessHandler(checks map[string]HealthCheckFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dependencies := make(map[string]DependencyStatus)
		allHealthy := true
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		for name, check := range checks {
			if check == nil {
				continue
			}
			start := time.Now()
			healthy, err := check(ctx)
			latency := time.Since(start).Milliseconds()

			status := "healthy"
			message := ""
			if err != nil || !healthy {
				status = "unhealthy"
				allHealthy = false
				if err != nil {
					message = err.Error()
				}
			}

			dependencies[name] = DependencyStatus{
				Status:    status,
				Message:   message,
				LatencyMs: latency,
			}
		}

		status := HealthStatus{
			Status:       "ready",
			Service:      "orpheus-tts",
			Version:      "1.0.0",
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Dependencies: dependencies,
		}

		w.Header().Set("Content-Type", "application/json")
		if !allHealthy {
			status.Status = "not_ready"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(status)
	}
}
