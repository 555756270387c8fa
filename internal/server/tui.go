// ABOUTME: Server TUI for displaying studio state and connected clients
// ABOUTME: Real-time server status display using bubbletea
package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ServerTUI manages the server TUI
type ServerTUI struct {
	program  *tea.Program
	updates  chan ServerStatus
	quitChan chan struct{}

	mu     sync.Mutex
	closed bool
}

// ServerStatus holds server state for TUI
type ServerStatus struct {
	Name     string
	Port     int
	Clients  []ClientInfo
	Mode     string
	Voice    string
	Clip     string
	Playback string
	Progress float64
	Error    string
}

// ClientInfo holds client information for display
type ClientInfo struct {
	ID        string
	Addr      string
	Connected time.Duration
}

// tuiModel is the bubbletea model for server TUI
type tuiModel struct {
	status    ServerStatus
	startTime time.Time
	quitting  bool
	quitChan  chan struct{}
}

type tickMsg time.Time
type statusMsg ServerStatus

func (m tuiModel) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			select {
			case m.quitChan <- struct{}{}:
			default:
			}
			return m, tea.Quit
		}

	case tickMsg:
		return m, tickEvery()

	case statusMsg:
		m.status = ServerStatus(msg)
		return m, nil
	}

	return m, nil
}

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	tuiHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	tuiClientStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m tuiModel) View() string {
	if m.quitting {
		return "Shutting down server...\n"
	}

	var b strings.Builder

	b.WriteString(tuiTitleStyle.Render("TTS Studio Server"))
	b.WriteString("\n\n")

	field := func(name, value string) {
		b.WriteString(tuiHeaderStyle.Render(name + ": "))
		b.WriteString(tuiValueStyle.Render(value))
		b.WriteString("\n")
	}

	field("Server", m.status.Name)
	field("Port", fmt.Sprintf("%d", m.status.Port))
	field("Uptime", time.Since(m.startTime).Round(time.Second).String())
	b.WriteString("\n")

	field("Mode", m.status.Mode)
	field("Voice", m.status.Voice)
	field("Clip", m.status.Clip)
	field("Playback", fmt.Sprintf("%s %.0f%%", m.status.Playback, m.status.Progress))
	if m.status.Error != "" {
		b.WriteString(tuiErrorStyle.Render(m.status.Error))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(tuiClientStyle.Render(fmt.Sprintf("Connected Clients (%d)", len(m.status.Clients))))
	b.WriteString("\n\n")

	if len(m.status.Clients) == 0 {
		b.WriteString(tuiValueStyle.Render("  No clients connected"))
		b.WriteString("\n")
	} else {
		for _, client := range m.status.Clients {
			b.WriteString(fmt.Sprintf("  • %s", client.Addr))
			b.WriteString(tuiValueStyle.Render(fmt.Sprintf(" (%s)", client.Connected.Round(time.Second))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press 'q' or Ctrl+C to quit"))

	return b.String()
}

// NewServerTUI creates a new server TUI
func NewServerTUI() *ServerTUI {
	return &ServerTUI{
		updates:  make(chan ServerStatus, 10),
		quitChan: make(chan struct{}, 1),
	}
}

// Start runs the TUI until it quits
func (t *ServerTUI) Start(serverName string, port int) error {
	m := tuiModel{
		status: ServerStatus{
			Name:     serverName,
			Port:     port,
			Playback: "idle",
		},
		startTime: time.Now(),
		quitChan:  t.quitChan,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	t.mu.Lock()
	t.program = p
	t.mu.Unlock()

	go func() {
		for status := range t.updates {
			p.Send(statusMsg(status))
		}
	}()

	_, err := p.Run()
	return err
}

// Update sends a status update to the TUI
func (t *ServerTUI) Update(status ServerStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	select {
	case t.updates <- status:
	default:
		// Don't block if channel is full
	}
}

// Stop stops the TUI
func (t *ServerTUI) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true

	if t.program != nil {
		t.program.Quit()
	}
	close(t.updates)
}

// QuitChan returns the channel that signals when user wants to quit
func (t *ServerTUI) QuitChan() <-chan struct{} {
	return t.quitChan
}
