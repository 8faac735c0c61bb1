package codec

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dhaval-x96/orpheus-tts/internal/config"
	"github.com/Dhaval-x96/orpheus-tts/internal/resilience"
)

func newTestClient(t *testing.T, url string) *SNACClient {
	t.Helper()
	client, err := NewSNACClient(&config.Config{SNACAPIURL: url + "/encode"})
	if err != nil {
		t.Fatalf("NewSNACClient() failed: %v", err)
	}
	return client
}

func TestEncode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/encode" {
			t.Errorf("Expected path /encode, got %s", r.URL.Path)
		}
		var req encodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Text != "hello" {
			t.Errorf("Expected text 'hello', got '%s'", req.Text)
		}
		json.NewEncoder(w).Encode(encodeResponse{Samples: []float32{0.0, 0.5, -0.5}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	samples, err := client.Encode(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(samples))
	}
	if samples[1] != 0.5 {
		t.Errorf("Expected sample 0.5, got %f", samples[1])
	}
}

func TestEncode_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "codec crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Encode(context.Background(), "hello"); err == nil {
		t.Fatal("Expected error for non-200 codec response")
	}
}

func TestEncode_UnreachableExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL)
	client.retryCfg = resilience.Config{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Multiplier:     1.0,
	}
	if _, err := client.Encode(context.Background(), "hello"); err == nil {
		t.Fatal("Expected error when codec service is unreachable")
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("Expected path /health, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestPing_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL)
	if err := client.Ping(context.Background()); err == nil {
		t.Error("Expected error when codec service is unreachable")
	}
}
