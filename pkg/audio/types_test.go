// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion functions and buffer timing
package audio

import (
	"math"
	"testing"
	"time"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float32
	}{
		{"zero", 0, 0},
		{"half positive", 16384, 0.5},
		{"half negative", -16384, -0.5},
		{"max", 32767, 32767.0 / 32768.0},
		{"min", -32768, -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"half positive", 0.5, 16384},
		{"min", -1.0, -32768},
		{"full scale clips", 1.0, 32767},
		{"over range clips", 1.5, 32767},
		{"under range clips", -1.5, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTrip16Bit(t *testing.T) {
	// Every int16 value must survive normalization and back
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		original := int16(v)
		result := SampleToInt16(SampleFromInt16(original))
		if result != original {
			t.Fatalf("round-trip failed: %d -> %d", original, result)
		}
	}
}

func TestBufferDuration(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		samples  int
		frames   int
		duration time.Duration
	}{
		{"one second mono", SpeechFormat, 24000, 24000, time.Second},
		{"two frames", SpeechFormat, 2, 2, 2 * time.Second / 24000},
		{"stereo", Format{SampleRate: 48000, Channels: 2, BitDepth: 16}, 48000, 24000, 500 * time.Millisecond},
		{"empty", SpeechFormat, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(tt.format, make([]float32, tt.samples))
			if buf.Frames() != tt.frames {
				t.Errorf("expected %d frames, got %d", tt.frames, buf.Frames())
			}
			if buf.Duration() != tt.duration {
				t.Errorf("expected duration %v, got %v", tt.duration, buf.Duration())
			}
		})
	}
}

func TestBufferSeconds(t *testing.T) {
	buf := NewBuffer(SpeechFormat, make([]float32, 2))
	if got, want := buf.Seconds(), 2.0/24000.0; got != want {
		t.Errorf("expected %v seconds, got %v", want, got)
	}

	var nilBuf *Buffer
	if nilBuf.Frames() != 0 || nilBuf.Duration() != 0 {
		t.Error("expected nil buffer to report zero length")
	}
}

func TestFormatRates(t *testing.T) {
	if SpeechFormat.FrameSize() != 2 {
		t.Errorf("expected frame size 2, got %d", SpeechFormat.FrameSize())
	}
	if SpeechFormat.ByteRate() != 48000 {
		t.Errorf("expected byte rate 48000, got %d", SpeechFormat.ByteRate())
	}
}
