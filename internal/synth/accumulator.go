package synth

import "strings"

// DefaultChunkThreshold is the buffered character count that triggers an
// encode flush. A heuristic carried over from the model's reference serving
// setup; treat it as a tunable, not a law.
const DefaultChunkThreshold = 4

// ChunkAccumulator buffers streamed text fragments until enough content has
// arrived to be worth synthesizing. It is owned by exactly one in-flight
// pipeline and is not safe for concurrent use.
type ChunkAccumulator struct {
	buf       strings.Builder
	threshold int
}

// NewChunkAccumulator creates an accumulator with the given flush threshold.
// Non-positive thresholds fall back to the default.
func NewChunkAccumulator(threshold int) *ChunkAccumulator {
	if threshold <= 0 {
		threshold = DefaultChunkThreshold
	}
	return &ChunkAccumulator{threshold: threshold}
}

// Add appends fragment content to the buffer
func (a *ChunkAccumulator) Add(text string) {
	a.buf.WriteString(text)
}

// Len returns the buffered character count
func (a *ChunkAccumulator) Len() int {
	return a.buf.Len()
}

// Ready reports whether the buffer has reached the flush threshold
func (a *ChunkAccumulator) Ready() bool {
	return a.buf.Len() >= a.threshold
}

// Flush returns the buffered text and resets the buffer. After a flush the
// buffer is always shorter than the threshold (it is empty).
func (a *ChunkAccumulator) Flush() string {
	text := a.buf.String()
	a.buf.Reset()
	return text
}
