package audio

import "math"

// QuantizePCM16 converts normalized float32 samples in [-1, 1] to 16-bit
// signed little-endian PCM bytes. Each sample maps to round(s * 32767),
// saturated at the int16 boundaries: out-of-range inputs are clamped,
// never wrapped. Mono only.
func QuantizePCM16(samples []float32) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := math.Round(float64(s) * 32767)
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		u := uint16(int16(v))
		// Little-endian 16-bit signed integer
		pcm[i*2] = byte(u)
		pcm[i*2+1] = byte(u >> 8)
	}
	return pcm
}

// DequantizePCM16 converts 16-bit signed little-endian PCM bytes back to
// normalized float32 samples. Odd trailing bytes are ignored.
func DequantizePCM16(pcm []byte) []float32 {
	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		v := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		samples[i] = float32(v) / 32767
	}
	return samples
}
