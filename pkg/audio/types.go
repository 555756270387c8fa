// ABOUTME: Audio type definitions
// ABOUTME: Defines raw PCM formats and decoded float buffers
package audio

import (
	"math"
	"time"
)

const (
	// DefaultSampleRate is the rate the remote speech API produces (24 kHz)
	DefaultSampleRate = 24000

	// DefaultChannels is mono
	DefaultChannels = 1

	// DefaultBitDepth is signed 16-bit little-endian
	DefaultBitDepth = 16

	// BytesPerSample for 16-bit PCM
	BytesPerSample = DefaultBitDepth / 8

	// int16Scale normalizes a signed 16-bit sample to [-1.0, 1.0)
	int16Scale = 32768.0
)

// Format describes a raw PCM stream
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// SpeechFormat is the fixed contract of the remote speech API
var SpeechFormat = Format{
	SampleRate: DefaultSampleRate,
	Channels:   DefaultChannels,
	BitDepth:   DefaultBitDepth,
}

// FrameSize returns the number of bytes in one interleaved frame
func (f Format) FrameSize() int {
	return f.Channels * f.BitDepth / 8
}

// ByteRate returns bytes per second of raw PCM in this format
func (f Format) ByteRate() int {
	return f.SampleRate * f.FrameSize()
}

// Buffer represents decoded PCM audio. It is immutable once produced.
type Buffer struct {
	Format  Format
	Samples []float32 // interleaved, normalized to [-1.0, 1.0]
}

// NewBuffer wraps samples in a Buffer with the given format
func NewBuffer(format Format, samples []float32) *Buffer {
	return &Buffer{
		Format:  format,
		Samples: samples,
	}
}

// Frames returns the number of sample frames (samples per channel)
func (b *Buffer) Frames() int {
	if b == nil || b.Format.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the playback length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}

// Seconds returns the duration as frameCount / sampleRate
func (b *Buffer) Seconds() float64 {
	if b == nil || b.Format.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.Format.SampleRate)
}

// SampleFromInt16 normalizes a signed 16-bit sample to the floating range
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / int16Scale
}

// SampleToInt16 converts a normalized sample back to signed 16-bit
func SampleToInt16(sample float32) int16 {
	// Scaling by a power of two is exact, so values produced by
	// SampleFromInt16 round-trip without loss.
	scaled := math.Round(float64(sample) * int16Scale)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}
