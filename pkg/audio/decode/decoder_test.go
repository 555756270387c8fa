// ABOUTME: Tests for container decoders
// ABOUTME: Tests MIME dispatch, WAV decoding and malformed input handling
package decode

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

func TestForMimeType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"audio/mpeg", "*decode.MP3Decoder"},
		{"audio/mp3", "*decode.MP3Decoder"},
		{"audio/wav", "*decode.WAVDecoder"},
		{"audio/x-wav", "*decode.WAVDecoder"},
		{"audio/ogg", "*decode.VorbisDecoder"},
		{"audio/ogg; codecs=opus", "*decode.OpusDecoder"},
		{"audio/opus", "*decode.OpusDecoder"},
		{"AUDIO/WAV", "*decode.WAVDecoder"},
		{"audio/aiff", "*decode.AIFFDecoder"},
		{"audio/x-aiff", "*decode.AIFFDecoder"},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			dec, err := ForMimeType(tt.mimeType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer dec.Close()

			if got := typeName(dec); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestForMimeType_Unsupported(t *testing.T) {
	for _, mimeType := range []string{"audio/aac", "audio/mp4", "text/plain", ""} {
		if _, err := ForMimeType(mimeType); err == nil {
			t.Errorf("expected error for %q", mimeType)
		}
	}
}

func TestWAVDecode(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0x00, 0x80, 0x00, 0x40, 0xFF, 0x7F}
	data := buildWAV(pcm, 16000, 1)

	buf, err := NewWAV().Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.Format.SampleRate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", buf.Format.SampleRate)
	}
	if buf.Format.Channels != 1 {
		t.Errorf("expected 1 channel, got %d", buf.Format.Channels)
	}
	if buf.Frames() != 4 {
		t.Fatalf("expected 4 frames, got %d", buf.Frames())
	}

	expected := []float32{0, -1.0, 0.5, 32767.0 / 32768.0}
	for i, want := range expected {
		if buf.Samples[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, buf.Samples[i])
		}
	}
}

func TestContainerDecoders_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		decoder Decoder
		input   []byte
	}{
		{"wav empty", NewWAV(), nil},
		{"wav garbage", NewWAV(), []byte("definitely not a riff file")},
		{"aiff garbage", NewAIFF(), []byte("FORM but not really")},
		{"mp3 empty", NewMP3(), nil},
		{"vorbis empty", NewVorbis(), nil},
		{"opus missing header", NewOpus(), []byte("OggS but no identification")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := tt.decoder.Decode(tt.input)
			if !errors.Is(err, audio.ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
			if buf != nil {
				t.Error("expected no buffer on failure")
			}
		})
	}
}

func TestOpusChannels(t *testing.T) {
	head := append([]byte("OggS....OpusHead"), 1, 2, 0x38, 0x01)

	channels, err := opusChannels(head)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channels != 2 {
		t.Errorf("expected 2 channels, got %d", channels)
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case *MP3Decoder:
		return "*decode.MP3Decoder"
	case *WAVDecoder:
		return "*decode.WAVDecoder"
	case *VorbisDecoder:
		return "*decode.VorbisDecoder"
	case *OpusDecoder:
		return "*decode.OpusDecoder"
	case *AIFFDecoder:
		return "*decode.AIFFDecoder"
	default:
		return "unknown"
	}
}

// buildWAV assembles a canonical 16-bit PCM WAV file
func buildWAV(pcm []byte, sampleRate, channels int) []byte {
	out := make([]byte, 44, 44+len(pcm))
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+len(pcm)))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(out[32:], uint16(channels*2))
	binary.LittleEndian.PutUint16(out[34:], 16)
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(len(pcm)))
	return append(out, pcm...)
}
