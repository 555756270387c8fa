// ABOUTME: Speech client error kinds
// ABOUTME: Sentinel errors for credential, input and remote failures
package speech

import "errors"

var (
	// ErrMissingCredential is returned before any network call when no API key is set
	ErrMissingCredential = errors.New("missing API key")

	// ErrEmptyInput is returned for blank text
	ErrEmptyInput = errors.New("empty input text")

	// ErrRemoteFailure covers transport errors, bad statuses and missing audio
	ErrRemoteFailure = errors.New("speech request failed")

	// ErrNoAudio is a remote failure where the model returned no audio part
	ErrNoAudio = errors.New("no audio data returned from the model")
)
