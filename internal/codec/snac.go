package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Dhaval-x96/orpheus-tts/internal/config"
	"github.com/Dhaval-x96/orpheus-tts/internal/observability"
	"github.com/Dhaval-x96/orpheus-tts/internal/resilience"
	"github.com/rs/zerolog"
)

// SNACClient implements Encoder against an HTTP SNAC codec service
type SNACClient struct {
	apiURL     string
	healthURL  string
	httpClient *http.Client
	retryCfg   resilience.Config
	logger     zerolog.Logger
}

type encodeRequest struct {
	Text string `json:"text"`
}

type encodeResponse struct {
	Samples []float32 `json:"samples"`
}

// NewSNACClient creates a SNAC codec client from the process configuration
func NewSNACClient(cfg *config.Config) (*SNACClient, error) {
	u, err := url.Parse(cfg.SNACAPIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid SNAC API URL %q: %w", cfg.SNACAPIURL, err)
	}
	health := *u
	health.Path = "/health"

	return &SNACClient{
		apiURL:     cfg.SNACAPIURL,
		healthURL:  health.String(),
		httpClient: &http.Client{},
		retryCfg:   resilience.DefaultConfig(),
		logger:     observability.GetLogger().With().Str("component", "snac").Logger(),
	}, nil
}

// Encode converts text into float32 audio samples. Transient transport
// failures are retried with backoff; codec-level rejections are not.
func (c *SNACClient) Encode(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(encodeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling encode request: %w", err)
	}

	var samples []float32
	err = resilience.Do(ctx, c.retryCfg, func() error {
		var attemptErr error
		samples, attemptErr = c.encodeOnce(ctx, body)
		if attemptErr != nil && resilience.IsTransientNetworkError(attemptErr) {
			c.logger.Warn().Err(attemptErr).Msg("Transient SNAC codec failure, retrying")
		}
		return attemptErr
	}, resilience.IsTransientNetworkError)
	if err != nil {
		observability.RecordCodecEncode(false)
		return nil, err
	}

	observability.RecordCodecEncode(true)
	return samples, nil
}

func (c *SNACClient) encodeOnce(ctx context.Context, body []byte) ([]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating encode request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling snac codec: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("snac codec returned status %d: %s", resp.StatusCode, detail)
	}

	var result encodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding snac response: %w", err)
	}
	return result.Samples, nil
}

// Ping checks that the codec service is reachable. Called once at startup.
func (c *SNACClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(pingCtx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return fmt.Errorf("creating snac health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("snac codec unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("snac codec health check returned status %d", resp.StatusCode)
	}
	return nil
}
