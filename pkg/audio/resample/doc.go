// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates and channel counts
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling.
//
// Example:
//
//	r := resample.New(44100, 24000, 1)
//	outputSize := r.Resample(inputSamples, outputSamples)
//
//	preview, err := resample.ToFormat(buf, 24000, 1)
package resample
