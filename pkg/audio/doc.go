// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types, error kinds and sample conversion functions
// Package audio provides the fundamental types used by the speech pipeline.
//
// This package defines core types used throughout the studio:
//   - Format: Describes a raw PCM stream (sample rate, channels, bit depth)
//   - Buffer: Decoded audio as normalized float32 samples in [-1.0, 1.0]
//
// It also provides conversions between signed 16-bit samples and the
// normalized floating range:
//   - SampleFromInt16 divides by 32768
//   - SampleToInt16 is its exact inverse for every int16 value
//
// Example:
//
//	buf := audio.NewBuffer(audio.SpeechFormat, samples)
//	fmt.Printf("%d frames, %v\n", buf.Frames(), buf.Duration())
package audio
