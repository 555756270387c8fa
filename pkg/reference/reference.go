// ABOUTME: Reference file loading and MIME detection
// ABOUTME: Enforces the upload size limit before any bytes are read
package reference

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/harperreed/ttsstudio-go/pkg/audio/encode"
)

// MaxSize is the largest accepted reference (5 MB)
const MaxSize = 5 * 1024 * 1024

var (
	// ErrOversizedUpload indicates a reference larger than MaxSize
	ErrOversizedUpload = errors.New("reference file exceeds 5MB")

	// ErrUnsupportedReference indicates a file that is not audio
	ErrUnsupportedReference = errors.New("reference is not an audio file")
)

// File is a validated reference sample held in memory
type File struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// Base64 encodes the sample for inline upload
func (f *File) Base64() string {
	return encode.EncodeBase64(f.Data)
}

var extensionTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".wave": "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg; codecs=opus",
	".aif":  "audio/aiff",
	".aiff": "audio/aiff",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".webm": "audio/webm",
}

// Load reads a reference from disk. The size limit is checked from
// file metadata first, so oversized files are never read.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat reference: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedReference, path)
	}
	if info.Size() > MaxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrOversizedUpload, filepath.Base(path), info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference: %w", err)
	}
	defer f.Close()

	// The file may have grown since Stat
	data, err := io.ReadAll(io.LimitReader(f, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}

	return FromBytes(filepath.Base(path), data, "")
}

// FromBytes validates an in-memory reference. declaredType is the
// client-supplied MIME type and may be empty.
func FromBytes(name string, data []byte, declaredType string) (*File, error) {
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrOversizedUpload, name, len(data))
	}

	mimeType := DetectMimeType(name, data, declaredType)
	if !isAudio(mimeType) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedReference, name, mimeType)
	}

	return &File{
		Name:     name,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

// DetectMimeType picks a MIME type from the declared type, the file
// extension, then content sniffing
func DetectMimeType(name string, data []byte, declaredType string) string {
	if isAudio(declaredType) {
		return normalize(declaredType, data)
	}

	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return normalize(t, data)
	}

	return normalize(mimetype.Detect(data).String(), data)
}

// normalize maps sniffed aliases onto the types the API accepts
func normalize(mimeType string, data []byte) string {
	base := baseType(mimeType)
	switch base {
	case "audio/wave", "audio/x-wav", "audio/vnd.wave":
		return "audio/wav"
	case "audio/x-aiff":
		return "audio/aiff"
	case "audio/mp3":
		return "audio/mpeg"
	case "audio/x-flac":
		return "audio/flac"
	case "video/webm":
		// WebM sniffs as video even when it only carries an audio track
		return "audio/webm"
	case "application/ogg", "audio/ogg":
		if isOpus(data) {
			return "audio/ogg; codecs=opus"
		}
		return "audio/ogg"
	}
	return strings.TrimSpace(mimeType)
}

func isAudio(mimeType string) bool {
	return strings.HasPrefix(baseType(mimeType), "audio/")
}

func baseType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
}

// isOpus reports whether an Ogg stream starts with an Opus header
func isOpus(data []byte) bool {
	head := data
	if len(head) > 128 {
		head = head[:128]
	}
	return bytes.Contains(head, []byte("OpusHead"))
}
