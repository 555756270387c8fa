// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 reference clips to normalized float buffers
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3() *MP3Decoder {
	return &MP3Decoder{}
}

// Decode converts MP3 bytes to a buffer
func (d *MP3Decoder) Decode(data []byte) (*audio.Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", audio.ErrDecode, err)
	}

	// go-mp3 always produces 16-bit little-endian stereo
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", audio.ErrDecode, err)
	}

	numSamples := len(pcm) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	return audio.NewBuffer(audio.Format{
		SampleRate: decoder.SampleRate(),
		Channels:   2,
		BitDepth:   16,
	}, samples), nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
