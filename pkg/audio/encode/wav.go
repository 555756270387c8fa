// ABOUTME: WAV container encoder
// ABOUTME: Wraps raw 16-bit mono PCM in a canonical 44-byte RIFF header
package encode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

)

const (
	// HeaderSize is the length of the canonical WAV header
	HeaderSize = 44

	wavChannels      = 1
	wavBitsPerSample = 16
	wavFormatPCM     = 1
	wavFmtChunkSize  = 16
)

// ErrNotWAV indicates bytes that don't start with a canonical WAV header
var ErrNotWAV = errors.New("not a canonical WAV file")

// EncodeWAV prepends a canonical WAV header to raw PCM bytes.
// The payload is copied verbatim and never re-quantized.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	dataLength := uint32(len(pcm))
	blockAlign := wavChannels * wavBitsPerSample / 8
	byteRate := sampleRate * blockAlign

	out := make([]byte, HeaderSize, HeaderSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], 36+dataLength)
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], wavFmtChunkSize)
	binary.LittleEndian.PutUint16(out[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(out[22:24], wavChannels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], wavBitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], dataLength)

	return append(out, pcm...)
}

// StripWAVHeader returns the PCM payload of a file produced by EncodeWAV
func StripWAVHeader(wav []byte) ([]byte, error) {
	if len(wav) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrNotWAV, len(wav))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) ||
		!bytes.Equal(wav[36:40], []byte("data")) {
		return nil, ErrNotWAV
	}

	dataLength := int(binary.LittleEndian.Uint32(wav[40:44]))
	if dataLength > len(wav)-HeaderSize {
		return nil, fmt.Errorf("%w: data length %d exceeds payload", ErrNotWAV, dataLength)
	}

	pcm := make([]byte, dataLength)
	copy(pcm, wav[HeaderSize:HeaderSize+dataLength])
	return pcm, nil
}
