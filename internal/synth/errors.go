package synth

import "errors"

// ErrCodecUnavailable is returned by every synthesis call once the SNAC
// codec failed its startup availability check. The failure is permanent for
// the life of the process; no per-request recovery is attempted.
var ErrCodecUnavailable = errors.New("snac codec is not available, cannot generate speech")
