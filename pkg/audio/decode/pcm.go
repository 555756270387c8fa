// ABOUTME: PCM audio decoder
// ABOUTME: Decodes signed 16-bit little-endian PCM into normalized float buffers
package decode

import (
	"fmt"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

// PCMDecoder decodes raw PCM audio
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (*PCMDecoder, error) {
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %d", audio.ErrPlaybackUnavailable, format.SampleRate)
	}
	if format.Channels <= 0 {
		return nil, fmt.Errorf("%w: invalid channel count %d", audio.ErrPlaybackUnavailable, format.Channels)
	}

	return &PCMDecoder{
		format: format,
	}, nil
}

// DecodePCM decodes raw bytes at the given rate and channel count
func DecodePCM(data []byte, sampleRate, channels int) (*audio.Buffer, error) {
	decoder, err := NewPCM(audio.Format{
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   16,
	})
	if err != nil {
		return nil, err
	}
	return decoder.Decode(data)
}

// Decode converts PCM bytes to a normalized buffer.
// A trailing partial frame (such as an odd final byte) is dropped.
func (d *PCMDecoder) Decode(data []byte) (*audio.Buffer, error) {
	frameSize := d.format.FrameSize()
	frames := len(data) / frameSize
	numSamples := frames * d.format.Channels

	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		// low byte | high byte << 8, reinterpreted as two's complement
		sample16 := int16(uint16(data[i*2]) | uint16(data[i*2+1])<<8)
		samples[i] = audio.SampleFromInt16(sample16)
	}

	return audio.NewBuffer(d.format, samples), nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
