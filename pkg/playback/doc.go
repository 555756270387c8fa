// ABOUTME: Playback controller package for single-session audio playback
// ABOUTME: Tracks progress of one active voice against the device clock
// Package playback manages at most one active playback session.
//
// Starting a new session always tears down the previous one first, so
// the shared output never carries more than one voice from a Controller.
// Progress is sampled on a fixed tick, is non-decreasing within a
// session and reaches exactly 100 on natural completion.
//
// Example:
//
//	ctrl, err := playback.New(playback.Config{Output: out})
//	err = ctrl.Play(ctx, buf)
//	status := ctrl.Status()
//	ctrl.Stop()
package playback
