// ABOUTME: Audio encoder package for PCM, WAV and base64 output
// ABOUTME: Provides 16-bit quantization, WAV wrapping and base64 encoding
// Package encode provides audio encoders for the studio's output formats.
//
// Supports: signed 16-bit PCM, canonical 44-byte WAV, base64 transport
//
// The WAV encoder wraps raw PCM bytes verbatim so that stripping the
// header reproduces the original payload exactly.
//
// Example:
//
//	wavBytes := encode.EncodeWAV(pcm, audio.DefaultSampleRate)
//	pcm, err := encode.StripWAVHeader(wavBytes)
package encode
