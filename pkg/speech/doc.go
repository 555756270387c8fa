// ABOUTME: Remote speech synthesis client package
// ABOUTME: Calls Gemini generateContent through the genai SDK for audio output
// Package speech requests synthesized audio from the Gemini API.
//
// Both calls return the audio payload as standard base64, the form the API
// sends it in: raw signed 16-bit little-endian mono PCM at 24 kHz once decoded.
//
// Example:
//
//	client := speech.NewClient(speech.Config{APIKey: key})
//	b64, err := client.Speak(ctx, "Hello there", "Kore")
package speech
