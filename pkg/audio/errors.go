// ABOUTME: Error kinds shared by the audio pipeline
// ABOUTME: Decode failures and playback-unavailable conditions
package audio

import "errors"

var (
	// ErrDecode reports malformed base64, PCM or container data
	ErrDecode = errors.New("audio decode failed")

	// ErrPlaybackUnavailable reports that the audio output cannot be
	// initialized, resumed, or cannot accept the buffer format
	ErrPlaybackUnavailable = errors.New("audio playback unavailable")
)
