package resilience

import (
	"context"
	"strings"
	"time"
)

// Config holds retry behavior for calls to sidecar services
type Config struct {
	MaxAttempts    int           // Total attempts, including the first
	InitialBackoff time.Duration // Backoff before the second attempt
	MaxBackoff     time.Duration // Cap on backoff growth
	Multiplier     float64       // Exponential growth factor
}

// DefaultConfig returns the retry configuration used for codec calls
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2.0,
	}
}

// IsRetryable decides whether a failed attempt is worth repeating
type IsRetryable func(error) bool

// Do runs fn up to cfg.MaxAttempts times with exponential backoff between
// attempts. It stops early when fn succeeds, when isRetryable rejects the
// error, or when ctx is cancelled during backoff. The last error is returned.
func Do(ctx context.Context, cfg Config, fn func() error, isRetryable IsRetryable) error {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultConfig()
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if isRetryable != nil && !isRetryable(err) {
			return err
		}

		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}

			backoff = time.Duration(float64(backoff) * cfg.Multiplier)
			if backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}
	}

	return lastErr
}

// IsTransientNetworkError reports whether an error looks like a temporary
// transport failure rather than a definitive rejection
func IsTransientNetworkError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"network is unreachable",
		"no route to host",
		"i/o timeout",
		"EOF",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
