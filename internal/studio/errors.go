// ABOUTME: Studio error kinds and user-facing messages
// ABOUTME: Maps every error the studio can surface to one readable line
package studio

import (
	"errors"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/reference"
	"github.com/harperreed/ttsstudio-go/pkg/speech"
	"github.com/harperreed/ttsstudio-go/pkg/voices"
)

var (
	// ErrNoReference indicates clone mode without a reference sample
	ErrNoReference = errors.New("no reference audio selected")

	// ErrUnknownMode indicates a mode other than standard or clone
	ErrUnknownMode = errors.New("unknown mode")

	// ErrNoClip indicates an operation that needs generated audio
	ErrNoClip = errors.New("no generated audio")

	// ErrBusy indicates a generation is already running
	ErrBusy = errors.New("generation already in progress")
)

// Message returns the line shown to the user for err
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, speech.ErrMissingCredential):
		return "API Key is missing in environment variables."
	case errors.Is(err, speech.ErrEmptyInput):
		return "Please enter some text to generate speech."
	case errors.Is(err, ErrNoReference):
		return "Please upload an audio reference file for voice cloning."
	case errors.Is(err, reference.ErrOversizedUpload):
		return "File size too large. Please upload an audio file under 5MB."
	case errors.Is(err, reference.ErrUnsupportedReference):
		return "Please choose an audio file for the voice reference."
	case errors.Is(err, speech.ErrNoAudio):
		return "No audio data returned from the model."
	case errors.Is(err, audio.ErrDecode):
		return "The generated audio could not be decoded."
	case errors.Is(err, audio.ErrPlaybackUnavailable):
		return "Audio playback is unavailable on this device."
	case errors.Is(err, voices.ErrUnknownVoice):
		return "Please choose one of the available voices."
	case errors.Is(err, ErrUnknownMode):
		return "Please choose standard or clone mode."
	case errors.Is(err, ErrNoClip):
		return "Generate some speech first."
	case errors.Is(err, ErrBusy):
		return "Speech generation is already in progress."
	default:
		return "Something went wrong while generating speech."
	}
}
