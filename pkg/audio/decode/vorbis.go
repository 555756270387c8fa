// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes Ogg Vorbis reference clips using jfreymuth/oggvorbis
package decode

import (
	"bytes"
	"fmt"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis audio
type VorbisDecoder struct{}

// NewVorbis creates a new Ogg Vorbis decoder
func NewVorbis() *VorbisDecoder {
	return &VorbisDecoder{}
}

// Decode converts Ogg Vorbis bytes to a buffer
func (d *VorbisDecoder) Decode(data []byte) (*audio.Buffer, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: vorbis: %v", audio.ErrDecode, err)
	}

	return audio.NewBuffer(audio.Format{
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   32,
	}, samples), nil
}

// Close releases decoder resources
func (d *VorbisDecoder) Close() error {
	return nil
}
