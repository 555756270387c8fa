// ABOUTME: AIFF audio decoder
// ABOUTME: Decodes AIFF reference clips using go-audio/aiff
package decode

import (
	"bytes"
	"fmt"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

// AIFFDecoder decodes uncompressed AIFF files
type AIFFDecoder struct{}

// NewAIFF creates a new AIFF decoder
func NewAIFF() *AIFFDecoder {
	return &AIFFDecoder{}
}

// Decode converts AIFF bytes to a buffer
func (d *AIFFDecoder) Decode(data []byte) (*audio.Buffer, error) {
	decoder := aiff.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid AIFF file", audio.ErrDecode)
	}

	bitDepth := int(decoder.BitDepth)
	var maxVal float32
	switch bitDepth {
	case 8:
		maxVal = 128.0
	case 16:
		maxVal = 32768.0
	case 24:
		maxVal = 8388608.0
	case 32:
		maxVal = 2147483648.0
	default:
		return nil, fmt.Errorf("%w: unsupported AIFF bit depth %d", audio.ErrDecode, bitDepth)
	}

	chunk := &goaudio.IntBuffer{
		Format: decoder.Format(),
		Data:   make([]int, 4096),
	}
	var samples []float32
	for {
		n, err := decoder.PCMBuffer(chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: aiff: %v", audio.ErrDecode, err)
		}
		if n == 0 {
			break
		}
		for _, v := range chunk.Data[:n] {
			samples = append(samples, float32(v)/maxVal)
		}
	}

	return audio.NewBuffer(audio.Format{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   bitDepth,
	}, samples), nil
}

// Close releases decoder resources
func (d *AIFFDecoder) Close() error {
	return nil
}
