package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dhaval-x96/orpheus-tts/internal/config"
	"github.com/Dhaval-x96/orpheus-tts/internal/observability"
	"github.com/rs/zerolog"
)

// Connection probe status values
const (
	StatusConnected = "connected"
	StatusError     = "error"
)

// Params are the generation options forwarded to Ollama
type Params struct {
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
}

// Fragment is one piece of text emitted incrementally during streaming
// generation. Final marks the fragment carried by the done record.
type Fragment struct {
	Content string
	Final   bool
}

// Status is the result of a connection probe. Probes never fail with an
// error; failures are reported through the status/message pair.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// FragmentStream is a finite, pull-based sequence of fragments. It is not
// restartable; Close releases the underlying transport connection.
type FragmentStream interface {
	// Next returns the next fragment in arrival order, or io.EOF when the
	// stream is exhausted.
	Next() (Fragment, error)
	Close() error
}

// Generator abstracts the text-generation backend
type Generator interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
	GenerateStream(ctx context.Context, prompt string, params Params) (FragmentStream, error)
	TestConnection(ctx context.Context) Status
}

// RequestError is returned when the Ollama API answers with a non-success
// status code
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("ollama request failed: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Ollama generate API over HTTP
type Client struct {
	apiURL       string
	model        string
	timeout      time.Duration
	probeTimeout time.Duration
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewClient creates an Ollama client from the process configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL:       cfg.OllamaAPIURL,
		model:        cfg.ModelName,
		timeout:      time.Duration(cfg.APITimeout) * time.Second,
		probeTimeout: time.Duration(cfg.ProbeTimeout) * time.Second,
		httpClient:   &http.Client{},
		logger:       observability.GetLogger().With().Str("component", "ollama").Logger(),
	}
}

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

type options struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate issues one blocking call and returns the full generated text.
// An empty response body is returned as an empty string, not an error; the
// caller must treat it as "no audio to synthesize".
func (c *Client) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.postWithContext(reqCtx, prompt, params, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}

	if result.Response == "" {
		c.logger.Warn().Msg("Ollama returned empty response")
	}
	return result.Response, nil
}

// GenerateStream issues one streaming call and returns the fragment sequence.
// The caller owns the stream and must Close it on every exit path.
func (c *Client) GenerateStream(ctx context.Context, prompt string, params Params) (FragmentStream, error) {
	streamCtx, cancel := context.WithTimeout(ctx, c.timeout)

	resp, err := c.postWithContext(streamCtx, prompt, params, true)
	if err != nil {
		cancel()
		return nil, err
	}

	return newStream(resp.Body, cancel, c.logger), nil
}

// TestConnection exercises the backend with a trivial prompt under a short
// timeout. It never returns an error.
func (c *Client) TestConnection(ctx context.Context) Status {
	probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	payload := generateRequest{Model: c.model, Prompt: "Hello", Stream: false}
	body, err := json.Marshal(payload)
	if err != nil {
		return Status{Status: StatusError, Message: fmt.Sprintf("Failed to connect: %v", err)}
	}

	req, err := http.NewRequestWithContext(probeCtx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return Status{Status: StatusError, Message: fmt.Sprintf("Failed to connect: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{Status: StatusError, Message: fmt.Sprintf("Failed to connect: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Status{
			Status:  StatusError,
			Message: fmt.Sprintf("Failed to connect: %d - %s", resp.StatusCode, detail),
		}
	}

	return Status{Status: StatusConnected, Message: "Successfully connected to Ollama"}
}

func (c *Client) postWithContext(ctx context.Context, prompt string, params Params, stream bool) (*http.Response, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: stream,
		Options: options{
			Temperature:   params.Temperature,
			TopP:          params.TopP,
			RepeatPenalty: params.RepeatPenalty,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordOllamaRequest(false, time.Since(start))
		return nil, fmt.Errorf("calling ollama: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		observability.RecordOllamaRequest(false, time.Since(start))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(detail)).
			Msg("Ollama API request failed")
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(detail)}
	}

	observability.RecordOllamaRequest(true, time.Since(start))
	return resp, nil
}
