// ABOUTME: Read-only studio snapshots for front ends
// ABOUTME: Serializable view of mode, voice, reference, clip and playback
package studio

import (
	"github.com/harperreed/ttsstudio-go/pkg/audio/output"
	"github.com/harperreed/ttsstudio-go/pkg/playback"
)

// Snapshot is the studio state at one moment
type Snapshot struct {
	Mode       Mode           `json:"mode"`
	Voice      string         `json:"voice"`
	Reference  *ReferenceView `json:"reference,omitempty"`
	Clip       *ClipView      `json:"clip,omitempty"`
	Playback   PlaybackView   `json:"playback"`
	Volume     int            `json:"volume"`
	Muted      bool           `json:"muted"`
	Generating bool           `json:"generating"`
	Error      string         `json:"error,omitempty"`
}

// ReferenceView describes the selected reference
type ReferenceView struct {
	Name       string  `json:"name"`
	MimeType   string  `json:"mimeType"`
	Size       int64   `json:"size"`
	SampleRate int     `json:"sampleRate,omitempty"`
	Channels   int     `json:"channels,omitempty"`
	Seconds    float64 `json:"seconds,omitempty"`
}

// ClipView describes the current clip
type ClipView struct {
	ID        string  `json:"id"`
	Mode      Mode    `json:"mode"`
	Voice     string  `json:"voice,omitempty"`
	Seconds   float64 `json:"seconds"`
	Bytes     int     `json:"bytes"`
	CreatedAt int64   `json:"createdAt"`
}

// PlaybackView describes the playback controller
type PlaybackView struct {
	State     playback.State `json:"state"`
	Progress  float64        `json:"progress"`
	Seconds   float64        `json:"seconds"`
	SessionID string         `json:"sessionId,omitempty"`
}

// Snapshot returns the current state
func (s *Studio) Snapshot() Snapshot {
	st := s.player.Status()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Mode:       s.mode,
		Voice:      s.voice,
		Generating: s.generating,
		Error:      Message(s.err),
		Volume:     100,
		Playback: PlaybackView{
			State:     st.State,
			Progress:  st.Progress,
			Seconds:   st.Duration.Seconds(),
			SessionID: st.SessionID,
		},
	}

	if mixer, ok := s.config.Output.(output.Mixer); ok {
		snap.Volume = mixer.GetVolume()
		snap.Muted = mixer.IsMuted()
	}

	if s.ref != nil {
		snap.Reference = &ReferenceView{
			Name:       s.ref.Name,
			MimeType:   s.ref.MimeType,
			Size:       s.ref.Size,
			SampleRate: s.refInfo.SampleRate,
			Channels:   s.refInfo.Channels,
			Seconds:    s.refInfo.Duration.Seconds(),
		}
	}

	if s.clip != nil {
		snap.Clip = &ClipView{
			ID:        s.clip.ID,
			Mode:      s.clip.Mode,
			Voice:     s.clip.Voice,
			Seconds:   s.buffer.Seconds(),
			Bytes:     len(s.clip.PCM),
			CreatedAt: s.clip.CreatedAt.UnixMilli(),
		}
	}

	return snap
}
