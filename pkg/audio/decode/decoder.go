// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all audio decoders
package decode

import (
	"fmt"
	"strings"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

// Decoder decodes audio in various formats to a normalized buffer
type Decoder interface {
	// Decode converts encoded audio data to a buffer
	Decode(data []byte) (*audio.Buffer, error)

	// Close releases decoder resources
	Close() error
}

// ForMimeType returns a container decoder for an uploaded audio type
func ForMimeType(mimeType string) (Decoder, error) {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))

	switch base {
	case "audio/mpeg", "audio/mp3":
		return NewMP3(), nil
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return NewWAV(), nil
	case "audio/aiff", "audio/x-aiff":
		return NewAIFF(), nil
	case "audio/ogg":
		if strings.Contains(strings.ToLower(mimeType), "opus") {
			return NewOpus(), nil
		}
		return NewVorbis(), nil
	case "audio/opus":
		return NewOpus(), nil
	default:
		return nil, fmt.Errorf("no decoder for %s", mimeType)
	}
}
