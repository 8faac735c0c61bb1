package codec

import "context"

// Encoder abstracts the neural audio codec: it turns a buffered piece of
// generated text into normalized float32 samples in [-1, 1].
//
// Encode is treated as deterministic-enough but potentially expensive; no
// timeout is imposed on it by callers. Ping is the one-shot availability
// check performed at startup; after a failed Ping the synthesis engine
// fails closed for the life of the process.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Ping(ctx context.Context) error
}
