// ABOUTME: Reference audio package for voice cloning uploads
// ABOUTME: Loads, validates, probes and previews user-supplied audio samples
// Package reference handles the audio sample a user supplies for voice
// cloning. Files over MaxSize are rejected before they are read, and
// Fetch applies the same limit to references given as URLs.
//
// Example:
//
//	ref, err := reference.Load("sample.mp3")
//	info, err := reference.Probe(ref)
//	b64 := ref.Base64()
package reference
