// ABOUTME: Unit tests for WAV encoder
// ABOUTME: Tests header layout, round trip and compatibility with go-audio/wav
package encode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-audio/wav"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio/decode"
)

func TestEncodeWAV_Header(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0x00, 0x00}
	out := EncodeWAV(pcm, 24000)

	if len(out) != 48 {
		t.Fatalf("len = %d, want 48", len(out))
	}

	tests := []struct {
		name   string
		offset int
		width  int
		want   interface{}
	}{
		{"riff tag", 0, 4, "RIFF"},
		{"riff size", 4, 4, uint32(40)},
		{"wave tag", 8, 4, "WAVE"},
		{"fmt tag", 12, 4, "fmt "},
		{"fmt size", 16, 4, uint32(16)},
		{"format", 20, 2, uint16(1)},
		{"channels", 22, 2, uint16(1)},
		{"sample rate", 24, 4, uint32(24000)},
		{"byte rate", 28, 4, uint32(48000)},
		{"block align", 32, 2, uint16(2)},
		{"bits per sample", 34, 2, uint16(16)},
		{"data tag", 36, 4, "data"},
		{"data length", 40, 4, uint32(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := out[tt.offset : tt.offset+tt.width]
			var got interface{}
			switch tt.want.(type) {
			case string:
				got = string(field)
			case uint32:
				got = binary.LittleEndian.Uint32(field)
			case uint16:
				got = binary.LittleEndian.Uint16(field)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if !bytes.Equal(out[44:], pcm) {
		t.Errorf("payload = %v, want %v", out[44:], pcm)
	}
}

func TestEncodeWAV_SizeFields(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 480, 48001} {
		pcm := make([]byte, n)
		out := EncodeWAV(pcm, 24000)

		if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(36+n) {
			t.Errorf("n=%d: riff size = %d, want %d", n, got, 36+n)
		}
		if got := binary.LittleEndian.Uint32(out[40:44]); got != uint32(n) {
			t.Errorf("n=%d: data length = %d, want %d", n, got, n)
		}
		if len(out) != HeaderSize+n {
			t.Errorf("n=%d: total = %d, want %d", n, len(out), HeaderSize+n)
		}
	}
}

func TestEncodeWAV_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		pcm  []byte
	}{
		{"empty", []byte{}},
		{"silence", []byte{0, 0, 0, 0}},
		{"odd length", []byte{0x01, 0x02, 0x03}},
		{"every byte value", func() []byte {
			b := make([]byte, 256)
			for i := range b {
				b[i] = byte(i)
			}
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripWAVHeader(EncodeWAV(tt.pcm, 24000))
			if err != nil {
				t.Fatalf("StripWAVHeader() failed: %v", err)
			}
			if !bytes.Equal(got, tt.pcm) {
				t.Errorf("round trip = %v, want %v", got, tt.pcm)
			}
		})
	}
}

func TestEncodeWAV_DoesNotAliasInput(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	out := EncodeWAV(pcm, 24000)
	pcm[0] = 99

	if out[HeaderSize] != 1 {
		t.Error("encoded payload changed when the input slice was modified")
	}
}

func TestStripWAVHeader_Invalid(t *testing.T) {
	valid := EncodeWAV([]byte{1, 2}, 24000)
	truncated := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(truncated[40:44], 100)

	tests := []struct {
		name  string
		input []byte
	}{
		{"too short", []byte("RIFF")},
		{"wrong magic", append([]byte("RIFX"), valid[4:]...)},
		{"data length past end", truncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := StripWAVHeader(tt.input); !errors.Is(err, ErrNotWAV) {
				t.Errorf("expected ErrNotWAV, got %v", err)
			}
		})
	}
}

func TestEncodeWAV_ReadableByGoAudio(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0xC0, 0xFF, 0x7F}
	out := EncodeWAV(pcm, 24000)

	dec := wav.NewDecoder(bytes.NewReader(out))
	if !dec.IsValidFile() {
		t.Fatal("go-audio/wav rejected the file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() failed: %v", err)
	}

	if dec.SampleRate != 24000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Errorf("format = %d Hz / %d ch / %d bit", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}

	expected := []int{0, 16384, -16384, 32767}
	if len(buf.Data) != len(expected) {
		t.Fatalf("got %d samples, want %d", len(buf.Data), len(expected))
	}
	for i, want := range expected {
		if buf.Data[i] != want {
			t.Errorf("sample %d: got %d, want %d", i, buf.Data[i], want)
		}
	}
}

func TestEncodeWAV_FromBuffer(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0x00, 0x80, 0x00, 0x40}
	buf, err := decode.DecodePCM(pcm, audio.DefaultSampleRate, 1)
	if err != nil {
		t.Fatalf("DecodePCM() failed: %v", err)
	}

	// decode then quantize must reproduce the original bytes
	out := EncodeWAV(Int16LE(buf.Samples), buf.Format.SampleRate)
	if !bytes.Equal(out, EncodeWAV(pcm, audio.DefaultSampleRate)) {
		t.Errorf("EncodeWAV() = %v, want %v", out, EncodeWAV(pcm, audio.DefaultSampleRate))
	}
}
