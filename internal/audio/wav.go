package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// NumChannels is fixed: Orpheus produces mono audio
	NumChannels = 1
	// BitDepth of the PCM payload
	BitDepth = 16
	// HeaderSize is the byte length of the canonical RIFF/WAVE preamble
	HeaderSize = 44
)

// StreamHeader builds a RIFF/WAVE header for a stream whose total size is
// unknown at emission time. The RIFF and data length fields declare zero
// payload bytes; players consuming a chunked stream tolerate or ignore them.
// Streaming callers must emit this exactly once, before any PCM chunk.
func StreamHeader(sampleRate int) []byte {
	h := make([]byte, HeaderSize)
	byteRate := sampleRate * NumChannels * BitDepth / 8
	blockAlign := NumChannels * BitDepth / 8

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], 36) // header-only RIFF size
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(h[20:22], 1)  // audio format: PCM
	binary.LittleEndian.PutUint16(h[22:24], NumChannels)
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(h[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:36], BitDepth)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], 0) // placeholder data length

	return h
}

// WriteFile writes a complete, standalone WAV file with exact length fields.
// pcm must hold little-endian 16-bit mono samples. Non-streaming callers
// buffer all PCM before calling this once.
func WriteFile(ws io.WriteSeeker, pcm []byte, sampleRate int) error {
	if len(pcm)%2 != 0 {
		return fmt.Errorf("PCM data length must be even (16-bit samples), got %d", len(pcm))
	}

	data := make([]int, len(pcm)/2)
	for i := range data {
		data[i] = int(int16(pcm[i*2]) | int16(pcm[i*2+1])<<8)
	}

	enc := wav.NewEncoder(ws, sampleRate, BitDepth, NumChannels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: NumChannels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("writing wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav file: %w", err)
	}
	return nil
}
