package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestStreamHeader(t *testing.T) {
	h := StreamHeader(24000)

	if len(h) != HeaderSize {
		t.Fatalf("Expected %d header bytes, got %d", HeaderSize, len(h))
	}
	if string(h[0:4]) != "RIFF" || string(h[8:12]) != "WAVE" {
		t.Errorf("Expected RIFF/WAVE magic, got %q %q", h[0:4], h[8:12])
	}
	if got := binary.LittleEndian.Uint32(h[4:8]); got != 36 {
		t.Errorf("Expected header-only RIFF size 36, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(h[20:22]); got != 1 {
		t.Errorf("Expected PCM format 1, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(h[22:24]); got != 1 {
		t.Errorf("Expected 1 channel, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(h[24:28]); got != 24000 {
		t.Errorf("Expected sample rate 24000, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(h[28:32]); got != 48000 {
		t.Errorf("Expected byte rate 48000, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(h[34:36]); got != 16 {
		t.Errorf("Expected 16 bits per sample, got %d", got)
	}
	if string(h[36:40]) != "data" {
		t.Errorf("Expected data chunk id, got %q", h[36:40])
	}
	if got := binary.LittleEndian.Uint32(h[40:44]); got != 0 {
		t.Errorf("Expected placeholder data length 0, got %d", got)
	}
}

func TestStreamHeader_ConfigurableRate(t *testing.T) {
	h := StreamHeader(16000)
	if got := binary.LittleEndian.Uint32(h[24:28]); got != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(h[28:32]); got != 32000 {
		t.Errorf("Expected byte rate 32000, got %d", got)
	}
}

func TestWriteFile(t *testing.T) {
	// 500 zero samples -> 1000 bytes of PCM
	pcm := QuantizePCM16(make([]float32, 500))

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if err := WriteFile(f, pcm, 24000); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	f.Close()

	// Re-open and verify the container parses with exact length fields
	r, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen wav file: %v", err)
	}
	defer r.Close()

	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		t.Fatal("Expected a valid standalone WAV file")
	}
	if dec.NumChans != 1 {
		t.Errorf("Expected 1 channel, got %d", dec.NumChans)
	}
	if dec.BitDepth != 16 {
		t.Errorf("Expected bit depth 16, got %d", dec.BitDepth)
	}
	if dec.SampleRate != 24000 {
		t.Errorf("Expected sample rate 24000, got %d", dec.SampleRate)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() failed: %v", err)
	}
	if got := len(buf.Data) * 2; got != len(pcm) {
		t.Errorf("Expected %d PCM bytes, got %d", len(pcm), got)
	}
}

func TestWriteFile_OddLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := WriteFile(f, []byte{0x01}, 24000); err == nil {
		t.Error("Expected error for odd PCM length")
	}
}
