// ABOUTME: PCM audio encoding
// ABOUTME: Quantizes normalized float buffers to signed 16-bit little-endian bytes
package encode

import (
	"encoding/binary"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

// Int16LE quantizes normalized samples to 16-bit little-endian bytes
func Int16LE(samples []float32) []byte {
	output := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.SampleToInt16(sample)))
	}
	return output
}
