// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import (
	"context"
	"time"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

// Output represents a shared audio output device
type Output interface {
	// Resume wakes the device if the platform suspended it
	Resume(ctx context.Context) error

	// Start binds a buffer to a new voice and begins playback immediately
	Start(buf *audio.Buffer) (Voice, error)

	// Now returns the device clock
	Now() time.Duration
}

// Voice is one buffer playing on an Output
type Voice interface {
	// Stop halts playback and releases the voice. Safe to call more than once.
	Stop() error

	// Done is closed when the buffer plays to its end
	Done() <-chan struct{}
}

// Mixer is implemented by outputs with software volume control
type Mixer interface {
	SetVolume(volume int)
	GetVolume() int
	SetMuted(muted bool)
	IsMuted() bool
}
