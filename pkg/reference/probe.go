// ABOUTME: Reference format probing and preview decoding
// ABOUTME: Reads stream details and converts references to the output format
package reference

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio/decode"
	"github.com/harperreed/ttsstudio-go/pkg/audio/resample"
	"github.com/jfreymuth/oggvorbis"
)

// Info describes a reference stream
type Info struct {
	MimeType   string
	SampleRate int
	Channels   int
	Duration   time.Duration

	// Probed is false for types accepted without inspection (AAC, M4A, FLAC)
	Probed bool
}

// Probe reads stream details for formats the studio can decode
func Probe(f *File) (Info, error) {
	info := Info{MimeType: f.MimeType}

	switch baseType(f.MimeType) {
	case "audio/mpeg":
		dec, err := mp3.NewDecoder(bytes.NewReader(f.Data))
		if err != nil {
			return info, fmt.Errorf("%w: mp3 probe: %v", audio.ErrDecode, err)
		}
		// go-mp3 output is always 16-bit stereo, 4 bytes per frame
		if dec.SampleRate() <= 0 {
			return info, fmt.Errorf("%w: mp3 probe: invalid sample rate", audio.ErrDecode)
		}
		info.SampleRate = dec.SampleRate()
		info.Channels = 2
		info.Duration = time.Duration(dec.Length()/4) * time.Second / time.Duration(dec.SampleRate())

	case "audio/wav":
		dec := wav.NewDecoder(bytes.NewReader(f.Data))
		if !dec.IsValidFile() {
			return info, fmt.Errorf("%w: not a valid WAV file", audio.ErrDecode)
		}
		if err := dec.FwdToPCM(); err != nil {
			return info, fmt.Errorf("%w: wav probe: %v", audio.ErrDecode, err)
		}
		frameSize := int64(dec.NumChans) * int64(dec.BitDepth) / 8
		if frameSize <= 0 || dec.SampleRate == 0 {
			return info, fmt.Errorf("%w: wav probe: invalid format", audio.ErrDecode)
		}
		info.SampleRate = int(dec.SampleRate)
		info.Channels = int(dec.NumChans)
		info.Duration = time.Duration(dec.PCMLen()/frameSize) * time.Second / time.Duration(dec.SampleRate)

	case "audio/ogg":
		if isOpus(f.Data) {
			return probeDecoded(info, f)
		}
		length, format, err := oggvorbis.GetLength(bytes.NewReader(f.Data))
		if err != nil {
			return info, fmt.Errorf("%w: vorbis probe: %v", audio.ErrDecode, err)
		}
		if format.SampleRate <= 0 {
			return info, fmt.Errorf("%w: vorbis probe: invalid sample rate", audio.ErrDecode)
		}
		info.SampleRate = format.SampleRate
		info.Channels = format.Channels
		info.Duration = time.Duration(length) * time.Second / time.Duration(format.SampleRate)

	case "audio/aiff", "audio/opus":
		return probeDecoded(info, f)

	default:
		// Forwarded to the API as-is
		return info, nil
	}

	info.Probed = true
	return info, nil
}

// probeDecoded fully decodes formats without a cheap header probe
func probeDecoded(info Info, f *File) (Info, error) {
	buf, err := decodeNative(f)
	if err != nil {
		return info, err
	}
	info.SampleRate = buf.Format.SampleRate
	info.Channels = buf.Format.Channels
	info.Duration = buf.Duration()
	info.Probed = true
	return info, nil
}

// Decode converts a reference to format for local preview playback
func Decode(f *File, format audio.Format) (*audio.Buffer, error) {
	buf, err := decodeNative(f)
	if err != nil {
		return nil, err
	}

	out, err := resample.ToFormat(buf, format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrDecode, err)
	}
	return out, nil
}

// decodeNative decodes at the reference's own rate and channel count
func decodeNative(f *File) (*audio.Buffer, error) {
	dec, err := decode.ForMimeType(f.MimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrDecode, err)
	}
	defer dec.Close()

	return dec.Decode(f.Data)
}
