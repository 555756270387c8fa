// ABOUTME: WAV audio decoder
// ABOUTME: Decodes WAV reference clips using go-audio/wav
package decode

import (
	"bytes"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

// WAVDecoder decodes PCM WAV files of any integer bit depth
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV() *WAVDecoder {
	return &WAVDecoder{}
}

// Decode converts WAV bytes to a buffer
func (d *WAVDecoder) Decode(data []byte) (*audio.Buffer, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", audio.ErrDecode)
	}

	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: wav: %v", audio.ErrDecode, err)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported WAV bit depth %d", audio.ErrDecode, bitDepth)
	}
	scale := float32(int64(1) << (bitDepth - 1))

	// 8-bit WAV is unsigned
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	// Read in chunks so large references don't need a second int copy
	chunk := &goaudio.IntBuffer{
		Format: decoder.Format(),
		Data:   make([]int, 4096),
	}
	var samples []float32
	for {
		n, err := decoder.PCMBuffer(chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: wav: %v", audio.ErrDecode, err)
		}
		if n == 0 {
			break
		}
		for _, v := range chunk.Data[:n] {
			samples = append(samples, float32(v-offset)/scale)
		}
	}

	return audio.NewBuffer(audio.Format{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   bitDepth,
	}, samples), nil
}

// Close releases decoder resources
func (d *WAVDecoder) Close() error {
	return nil
}
