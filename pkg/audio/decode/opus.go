// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes Ogg Opus reference clips using libopusfile
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// opusSampleRate is the fixed decode rate of libopusfile
const opusSampleRate = 48000

// OpusDecoder decodes Ogg Opus audio
type OpusDecoder struct{}

// NewOpus creates a new Opus decoder
func NewOpus() *OpusDecoder {
	return &OpusDecoder{}
}

// Decode converts Ogg Opus bytes to a buffer
func (d *OpusDecoder) Decode(data []byte) (*audio.Buffer, error) {
	channels, err := opusChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opus: %v", audio.ErrDecode, err)
	}
	defer stream.Close()

	// Max frame size (120ms at 48kHz) per channel
	pcm16 := make([]int16, 5760*channels)
	var samples []float32

	for {
		n, err := stream.Read(pcm16)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: opus: %v", audio.ErrDecode, err)
		}
		if n == 0 {
			break
		}

		// n is samples per channel
		for _, s := range pcm16[:n*channels] {
			samples = append(samples, audio.SampleFromInt16(s))
		}
	}

	return audio.NewBuffer(audio.Format{
		SampleRate: opusSampleRate,
		Channels:   channels,
		BitDepth:   16,
	}, samples), nil
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}

// opusChannels reads the channel count from the OpusHead identification header
func opusChannels(data []byte) (int, error) {
	idx := bytes.Index(data, []byte("OpusHead"))
	if idx < 0 || idx+10 > len(data) {
		return 0, fmt.Errorf("%w: missing OpusHead header", audio.ErrDecode)
	}

	channels := int(data[idx+9])
	if channels == 0 {
		return 0, fmt.Errorf("%w: invalid opus channel count", audio.ErrDecode)
	}
	return channels, nil
}
