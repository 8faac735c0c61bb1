package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the Orpheus TTS service
type Config struct {
	// Server configuration
	Port string `envconfig:"ORPHEUS_PORT" default:"5000"`
	Host string `envconfig:"ORPHEUS_HOST" default:"0.0.0.0"`

	// Ollama text-generation backend configuration
	OllamaAPIURL string `envconfig:"OLLAMA_API_URL" default:"http://localhost:11434/api/generate"`
	ModelName    string `envconfig:"ORPHEUS_MODEL_NAME" default:"orpheus"`
	APITimeout   int    `envconfig:"ORPHEUS_API_TIMEOUT" default:"120"`  // seconds, full generation
	ProbeTimeout int    `envconfig:"ORPHEUS_PROBE_TIMEOUT" default:"10"` // seconds, health probe

	// SNAC audio codec backend configuration
	SNACAPIURL string `envconfig:"SNAC_API_URL" default:"http://localhost:5050/encode"`

	// Generation parameter defaults (overridable per request)
	Temperature   float64 `envconfig:"ORPHEUS_TEMPERATURE" default:"0.6"`
	TopP          float64 `envconfig:"ORPHEUS_TOP_P" default:"0.9"`
	RepeatPenalty float64 `envconfig:"ORPHEUS_REPEAT_PENALTY" default:"1.1"`

	// Audio output configuration
	SampleRate     int `envconfig:"ORPHEUS_SAMPLE_RATE" default:"24000"` // Hz, mono 16-bit PCM
	ChunkThreshold int `envconfig:"ORPHEUS_CHUNK_THRESHOLD" default:"4"` // Buffered chars before an encode flush

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configured values once at the boundary so the rest of
// the process can treat the config as read-only and well-formed.
func (c *Config) Validate() error {
	if c.OllamaAPIURL == "" {
		return fmt.Errorf("OLLAMA_API_URL is required")
	}
	if c.ModelName == "" {
		return fmt.Errorf("ORPHEUS_MODEL_NAME is required")
	}
	if c.Temperature < 0 {
		return fmt.Errorf("ORPHEUS_TEMPERATURE must be >= 0, got %f", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("ORPHEUS_TOP_P must be in [0,1], got %f", c.TopP)
	}
	if c.RepeatPenalty < 0 {
		return fmt.Errorf("ORPHEUS_REPEAT_PENALTY must be >= 0, got %f", c.RepeatPenalty)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("ORPHEUS_SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.ChunkThreshold <= 0 {
		return fmt.Errorf("ORPHEUS_CHUNK_THRESHOLD must be positive, got %d", c.ChunkThreshold)
	}
	return nil
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
