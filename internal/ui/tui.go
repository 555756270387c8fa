// ABOUTME: TUI initialization and studio notifications
// ABOUTME: Wraps the bubbletea program and forwards studio snapshots into it
package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/ttsstudio-go/internal/studio"
)

// Notifier forwards studio snapshots to a running program. Only the
// latest snapshot is kept, so Notify never blocks the caller.
type Notifier struct {
	mu      sync.Mutex
	latest  *studio.Snapshot
	pending chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewNotifier creates a notifier; pass Notify as the studio OnChange
func NewNotifier() *Notifier {
	return &Notifier{
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Notify records snap and wakes the forwarding goroutine
func (n *Notifier) Notify(snap studio.Snapshot) {
	n.mu.Lock()
	n.latest = &snap
	n.mu.Unlock()

	select {
	case n.pending <- struct{}{}:
	default:
	}
}

// Attach starts forwarding to p until Stop is called
func (n *Notifier) Attach(p *tea.Program) {
	go func() {
		for {
			select {
			case <-n.done:
				return
			case <-n.pending:
			}

			n.mu.Lock()
			snap := n.latest
			n.latest = nil
			n.mu.Unlock()

			if snap != nil {
				p.Send(SnapshotMsg(*snap))
			}
		}
	}()
}

// Stop ends forwarding
func (n *Notifier) Stop() {
	n.once.Do(func() { close(n.done) })
}

// NewModel creates a new TUI model. saveDir receives downloaded WAV files.
func NewModel(st Studio, text, saveDir string) Model {
	if saveDir == "" {
		saveDir = "."
	}
	r := []rune(text)
	return Model{
		studio:  st,
		saveDir: saveDir,
		text:    r,
		cursor:  len(r),
		snap:    st.Snapshot(),
	}
}

// Run starts the TUI and blocks until the user quits
func Run(st Studio, notifier *Notifier, text, saveDir string) error {
	p := tea.NewProgram(NewModel(st, text, saveDir), tea.WithAltScreen())
	if notifier != nil {
		notifier.Attach(p)
		defer notifier.Stop()
	}
	_, err := p.Run()
	return err
}
