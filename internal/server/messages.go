// ABOUTME: Websocket message envelope for the studio server
// ABOUTME: Server pushes hello and state messages, clients send playback commands
package server

import "github.com/harperreed/ttsstudio-go/internal/studio"

// Message types
const (
	TypeServerHello = "server/hello"
	TypeState       = "studio/state"
	TypeError       = "server/error"

	TypePlay    = "playback/play"
	TypeStop    = "playback/stop"
	TypeToggle  = "playback/toggle"
	TypePreview = "playback/preview"
)

// Message is the envelope for every websocket message
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerHello is sent once after the connection opens
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
}

// ErrorPayload reports a failed command
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// stateMessage wraps a snapshot for the wire
func stateMessage(snap studio.Snapshot) Message {
	return Message{Type: TypeState, Payload: snap}
}
