// ABOUTME: Audio decoder package for speech payloads and reference clips
// ABOUTME: Provides base64 decoding, raw PCM decoding and container decoders
// Package decode turns encoded audio into audio.Buffer values.
//
// Supports: base64 transport, raw 16-bit PCM, MP3, WAV, AIFF, Ogg Vorbis, Ogg Opus
//
// The PCM decoder is the core of the playback path: the remote speech API
// returns base64 text holding 24 kHz mono signed 16-bit little-endian PCM.
// The container decoders are used for reference clips uploaded by the user.
//
// Example:
//
//	raw, err := decode.DecodeBase64(payload)
//	buf, err := decode.DecodePCM(raw, 24000, 1)
package decode
