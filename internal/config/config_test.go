package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("ORPHEUS_PORT")
	os.Unsetenv("OLLAMA_API_URL")
	os.Unsetenv("ORPHEUS_MODEL_NAME")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Expected default Port '5000', got '%s'", cfg.Port)
	}

	if cfg.OllamaAPIURL != "http://localhost:11434/api/generate" {
		t.Errorf("Expected default OllamaAPIURL, got '%s'", cfg.OllamaAPIURL)
	}

	if cfg.ModelName != "orpheus" {
		t.Errorf("Expected default ModelName 'orpheus', got '%s'", cfg.ModelName)
	}

	if cfg.APITimeout != 120 {
		t.Errorf("Expected default APITimeout 120, got %d", cfg.APITimeout)
	}

	if cfg.ProbeTimeout != 10 {
		t.Errorf("Expected default ProbeTimeout 10, got %d", cfg.ProbeTimeout)
	}

	if cfg.Temperature != 0.6 {
		t.Errorf("Expected default Temperature 0.6, got %f", cfg.Temperature)
	}

	if cfg.TopP != 0.9 {
		t.Errorf("Expected default TopP 0.9, got %f", cfg.TopP)
	}

	if cfg.RepeatPenalty != 1.1 {
		t.Errorf("Expected default RepeatPenalty 1.1, got %f", cfg.RepeatPenalty)
	}

	if cfg.SampleRate != 24000 {
		t.Errorf("Expected default SampleRate 24000, got %d", cfg.SampleRate)
	}

	if cfg.ChunkThreshold != 4 {
		t.Errorf("Expected default ChunkThreshold 4, got %d", cfg.ChunkThreshold)
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("ORPHEUS_MODEL_NAME", "orpheus-large")
	os.Setenv("ORPHEUS_SAMPLE_RATE", "16000")
	os.Setenv("ORPHEUS_CHUNK_THRESHOLD", "8")
	defer os.Unsetenv("ORPHEUS_MODEL_NAME")
	defer os.Unsetenv("ORPHEUS_SAMPLE_RATE")
	defer os.Unsetenv("ORPHEUS_CHUNK_THRESHOLD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ModelName != "orpheus-large" {
		t.Errorf("Expected ModelName 'orpheus-large', got '%s'", cfg.ModelName)
	}

	if cfg.SampleRate != 16000 {
		t.Errorf("Expected SampleRate 16000, got %d", cfg.SampleRate)
	}

	if cfg.ChunkThreshold != 8 {
		t.Errorf("Expected ChunkThreshold 8, got %d", cfg.ChunkThreshold)
	}
}

func TestLoad_InvalidGenerationParams(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative temperature", "ORPHEUS_TEMPERATURE", "-0.1"},
		{"top_p above one", "ORPHEUS_TOP_P", "1.5"},
		{"negative repeat penalty", "ORPHEUS_REPEAT_PENALTY", "-1"},
		{"zero sample rate", "ORPHEUS_SAMPLE_RATE", "0"},
		{"zero chunk threshold", "ORPHEUS_CHUNK_THRESHOLD", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s, got nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("ORPHEUS_PORT", "8181")
	defer os.Unsetenv("ORPHEUS_PORT")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.Port != "8181" {
		t.Errorf("Expected Port '8181', got '%s'", cfg.Port)
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_KEY", "test-value")
	defer os.Unsetenv("TEST_KEY")

	value := GetEnv("TEST_KEY", "default")
	if value != "test-value" {
		t.Errorf("Expected 'test-value', got '%s'", value)
	}

	value = GetEnv("NON_EXISTENT_KEY", "default")
	if value != "default" {
		t.Errorf("Expected 'default', got '%s'", value)
	}
}
