// ABOUTME: Playback state and status types
// ABOUTME: Defines the Idle, Playing and Completed session states
package playback

import "time"

// State is the controller's playback state
type State int

const (
	// Idle means no session is active (also the stopped state)
	Idle State = iota
	// Playing means a voice is producing audio
	Playing
	// Completed means the last session played to its end
	Completed
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state as its name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a snapshot of the controller
type Status struct {
	State     State
	Progress  float64 // percent, 0-100
	Duration  time.Duration
	SessionID string
}

// progressAt computes min(elapsed/duration*100, 100)
func progressAt(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 100
	}
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(duration) * 100
	if p > 100 {
		return 100
	}
	return p
}
