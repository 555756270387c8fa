// ABOUTME: TUI update helpers for server
// ABOUTME: Builds a status summary from the studio snapshot and client list
package server

import (
	"fmt"
	"time"

	"github.com/harperreed/ttsstudio-go/internal/studio"
)

// updateTUI sends current server state to TUI
func (s *Server) updateTUI() {
	if s.tui == nil || s.studio == nil {
		return
	}

	s.tui.Update(s.status(s.studio.Snapshot()))
}

// status summarizes the server for display
func (s *Server) status(snap studio.Snapshot) ServerStatus {
	s.clientsMu.RLock()
	clients := make([]ClientInfo, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, ClientInfo{
			ID:        client.ID,
			Addr:      client.Addr,
			Connected: time.Since(client.ConnectedAt),
		})
	}
	s.clientsMu.RUnlock()

	clip := "none"
	switch {
	case snap.Generating:
		clip = "generating..."
	case snap.Clip != nil:
		clip = fmt.Sprintf("%.1fs (%s)", snap.Clip.Seconds, snap.Clip.Mode)
	}

	voice := snap.Voice
	if snap.Mode == studio.Clone {
		voice = "reference"
		if snap.Reference != nil {
			voice = snap.Reference.Name
		}
	}

	return ServerStatus{
		Name:     s.config.Name,
		Port:     s.config.Port,
		Clients:  clients,
		Mode:     string(snap.Mode),
		Voice:    voice,
		Clip:     clip,
		Playback: snap.Playback.State.String(),
		Progress: snap.Playback.Progress,
		Error:    snap.Error,
	}
}
