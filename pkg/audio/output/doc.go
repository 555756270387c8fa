// ABOUTME: Audio output package for playing decoded buffers
// ABOUTME: Provides Output and Voice interfaces and an oto implementation
// Package output provides audio playback interfaces.
//
// The oto backend owns one process-wide audio context. It is created
// lazily on first use and every Output shares it, so the context format
// is fixed for the life of the process.
//
// Example:
//
//	out := output.NewOto(audio.SpeechFormat)
//	err := out.Resume(ctx)
//	voice, err := out.Start(buf)
//	<-voice.Done()
package output
