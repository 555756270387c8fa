// ABOUTME: Bubbletea model for the studio TUI
// ABOUTME: Text editor, mode and voice selection, generation and playback keys
package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/ttsstudio-go/internal/studio"
	"github.com/harperreed/ttsstudio-go/pkg/playback"
	"github.com/harperreed/ttsstudio-go/pkg/reference"
	"github.com/harperreed/ttsstudio-go/pkg/voices"
)

// Studio is the subset of *studio.Studio the TUI drives
type Studio interface {
	Snapshot() studio.Snapshot
	Generate(ctx context.Context, text string) error
	SetMode(mode studio.Mode) error
	SetVoice(id string) error
	LoadReference(path string) (reference.Info, error)
	ClearReference()
	PreviewReference(ctx context.Context) error
	Toggle(ctx context.Context) error
	Stop()
	Download(dir string) (string, error)
	SetVolume(volume int) bool
	ToggleMute() bool
}

type focus int

const (
	focusControls focus = iota
	focusText
	focusPath
)

const barWidth = 30

// Model represents the TUI state
type Model struct {
	studio  Studio
	saveDir string

	// Editor
	text   []rune
	cursor int
	focus  focus
	path   []rune

	// Latest studio state
	snap   studio.Snapshot
	notice string

	// Dimensions
	width  int
	height int
}

// SnapshotMsg carries a studio state change into the program
type SnapshotMsg studio.Snapshot

// resultMsg reports the outcome of a background action
type resultMsg struct {
	notice string
	err    error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case SnapshotMsg:
		m.snap = studio.Snapshot(msg)
	case resultMsg:
		m.notice = msg.notice
		if msg.err != nil {
			m.notice = ""
		}
		m.snap = m.studio.Snapshot()
	}

	return m, nil
}

// Text returns the editor contents
func (m Model) Text() string {
	return string(m.text)
}

// handleKey routes keys by focus
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.focus {
	case focusText:
		return m.handleTextKey(msg)
	case focusPath:
		return m.handlePathKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "e":
		m.focus = focusText
	case "g":
		return m, m.generate()
	case " ", "p":
		return m, m.toggle()
	case "s":
		m.studio.Stop()
	case "c":
		return m, m.toggleMode()
	case "right", "l":
		return m, m.cycleVoice(1)
	case "left", "h":
		return m, m.cycleVoice(-1)
	case "r":
		m.focus = focusPath
		m.path = m.path[:0]
	case "x":
		m.studio.ClearReference()
		m.snap = m.studio.Snapshot()
	case "o":
		return m, m.preview()
	case "w":
		return m, m.save()
	case "up":
		m.adjustVolume(5)
	case "down":
		m.adjustVolume(-5)
	case "m":
		m.studio.ToggleMute()
		m.snap = m.studio.Snapshot()
	}

	return m, nil
}

// handleTextKey edits the text buffer
func (m Model) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		m.focus = focusControls
	case tea.KeyCtrlG:
		m.focus = focusControls
		return m, m.generate()
	case tea.KeyEnter:
		m.insert('\n')
	case tea.KeyBackspace:
		if m.cursor > 0 {
			m.text = append(m.text[:m.cursor-1], m.text[m.cursor:]...)
			m.cursor--
		}
	case tea.KeyDelete:
		if m.cursor < len(m.text) {
			m.text = append(m.text[:m.cursor], m.text[m.cursor+1:]...)
		}
	case tea.KeyLeft:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyRight:
		if m.cursor < len(m.text) {
			m.cursor++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		m.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.cursor = len(m.text)
	case tea.KeyCtrlU:
		m.text = m.text[:0]
		m.cursor = 0
	case tea.KeySpace:
		m.insert(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.insert(r)
		}
	}

	return m, nil
}

// handlePathKey edits the reference path prompt
func (m Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusControls
	case tea.KeyEnter:
		m.focus = focusControls
		path := strings.TrimSpace(string(m.path))
		if path == "" {
			return m, nil
		}
		return m, m.loadReference(path)
	case tea.KeyBackspace:
		if len(m.path) > 0 {
			m.path = m.path[:len(m.path)-1]
		}
	case tea.KeySpace:
		m.path = append(m.path, ' ')
	case tea.KeyRunes:
		m.path = append(m.path, msg.Runes...)
	}

	return m, nil
}

func (m *Model) insert(r rune) {
	m.text = append(m.text, 0)
	copy(m.text[m.cursor+1:], m.text[m.cursor:])
	m.text[m.cursor] = r
	m.cursor++
}

func (m *Model) adjustVolume(delta int) {
	volume := m.snap.Volume + delta
	if volume > 100 {
		volume = 100
	}
	if volume < 0 {
		volume = 0
	}
	if m.studio.SetVolume(volume) {
		m.snap = m.studio.Snapshot()
	}
}

// Commands run off the event loop and report back with resultMsg

func (m Model) generate() tea.Cmd {
	st, text := m.studio, m.Text()
	return func() tea.Msg {
		err := st.Generate(context.Background(), text)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: "Speech generated"}
	}
}

func (m Model) toggle() tea.Cmd {
	st := m.studio
	return func() tea.Msg {
		return resultMsg{err: st.Toggle(context.Background())}
	}
}

func (m Model) preview() tea.Cmd {
	st := m.studio
	return func() tea.Msg {
		return resultMsg{err: st.PreviewReference(context.Background())}
	}
}

func (m Model) toggleMode() tea.Cmd {
	st := m.studio
	next := studio.Clone
	if m.snap.Mode == studio.Clone {
		next = studio.Standard
	}
	return func() tea.Msg {
		return resultMsg{err: st.SetMode(next)}
	}
}

func (m Model) cycleVoice(step int) tea.Cmd {
	all := voices.All()
	i := voices.Index(m.snap.Voice)
	if i < 0 {
		i = 0
	}
	next := all[(i+step+len(all))%len(all)]

	st := m.studio
	return func() tea.Msg {
		return resultMsg{err: st.SetVoice(next.ID)}
	}
}

func (m Model) loadReference(path string) tea.Cmd {
	st := m.studio
	return func() tea.Msg {
		info, err := st.LoadReference(path)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: fmt.Sprintf("Reference loaded (%s)", info.MimeType)}
	}
}

func (m Model) save() tea.Cmd {
	st, dir := m.studio, m.saveDir
	return func() tea.Msg {
		path, err := st.Download(dir)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: "Saved " + path}
	}
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeBox   = boxStyle.BorderForeground(lipgloss.Color("205"))
)

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Gemini TTS Studio"))
	b.WriteString("\n\n")
	b.WriteString(m.renderSettings())
	b.WriteString(m.renderEditor())
	b.WriteString("\n")
	b.WriteString(m.renderReference())
	b.WriteString(m.renderPlayback())
	b.WriteString(m.renderStatus())
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderSettings renders mode and voice
func (m Model) renderSettings() string {
	mode := "Standard TTS"
	voiceText := m.snap.Voice
	if v, err := voices.Lookup(m.snap.Voice); err == nil {
		voiceText = v.Label()
	}
	if m.snap.Mode == studio.Clone {
		mode = "Voice Cloning"
		voiceText = "(from reference)"
	}

	return headerStyle.Render("Mode:  ") + valueStyle.Render(mode) + "\n" +
		headerStyle.Render("Voice: ") + valueStyle.Render(voiceText) + "\n\n"
}

// renderEditor renders the text with a cursor when focused
func (m Model) renderEditor() string {
	width := 60
	if m.width > 8 {
		width = m.width - 4
	}

	text := string(m.text)
	style := boxStyle.Width(width)
	if m.focus == focusText {
		text = string(m.text[:m.cursor]) + "█" + string(m.text[m.cursor:])
		style = activeBox.Width(width)
	} else if len(m.text) == 0 {
		text = faintStyle.Render("Enter text to speak...")
	}

	return style.Render(text)
}

// renderReference renders the reference prompt or the selected file
func (m Model) renderReference() string {
	if m.focus == focusPath {
		return headerStyle.Render("Reference path: ") + string(m.path) + "█\n"
	}

	ref := m.snap.Reference
	if ref == nil {
		if m.snap.Mode == studio.Clone {
			return headerStyle.Render("Reference: ") + faintStyle.Render("none (press r to load)") + "\n"
		}
		return ""
	}

	details := fmt.Sprintf("%s, %.1f KB", ref.MimeType, float64(ref.Size)/1024)
	if ref.SampleRate > 0 {
		details += fmt.Sprintf(", %dHz %s %.1fs", ref.SampleRate, channelName(ref.Channels), ref.Seconds)
	}

	return headerStyle.Render("Reference: ") + valueStyle.Render(truncate(ref.Name, 40)) +
		faintStyle.Render(" ("+details+")") + "\n"
}

// renderPlayback renders the clip, progress and volume
func (m Model) renderPlayback() string {
	var b strings.Builder

	if m.snap.Generating {
		b.WriteString(headerStyle.Render("Audio:  ") + valueStyle.Render("Generating...") + "\n")
	} else if clip := m.snap.Clip; clip != nil {
		icon := "▶"
		if m.snap.Playback.State == playback.Playing {
			icon = "■"
		}
		bar := renderBar(int(m.snap.Playback.Progress), 100, barWidth)
		b.WriteString(headerStyle.Render("Audio:  "))
		b.WriteString(fmt.Sprintf("%s [%s] %3.0f%% %.1fs\n", icon, bar, m.snap.Playback.Progress, clip.Seconds))
	} else if m.snap.Playback.State == playback.Playing {
		bar := renderBar(int(m.snap.Playback.Progress), 100, barWidth)
		b.WriteString(headerStyle.Render("Preview: "))
		b.WriteString(fmt.Sprintf("■ [%s] %3.0f%%\n", bar, m.snap.Playback.Progress))
	}

	muteIcon := ""
	if m.snap.Muted {
		muteIcon = " 🔇"
	}
	b.WriteString(headerStyle.Render("Volume: "))
	b.WriteString(fmt.Sprintf("[%s] %d%%%s\n", renderBar(m.snap.Volume, 100, 10), m.snap.Volume, muteIcon))

	return b.String()
}

// renderStatus renders the current error or the last notice
func (m Model) renderStatus() string {
	if m.snap.Error != "" {
		return "\n" + errorStyle.Render(m.snap.Error) + "\n"
	}
	if m.notice != "" {
		return "\n" + noticeStyle.Render(m.notice) + "\n"
	}
	return "\n"
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	switch m.focus {
	case focusText:
		return faintStyle.Render("\nCtrl+G:Generate  Esc/Tab:Done  Ctrl+U:Clear")
	case focusPath:
		return faintStyle.Render("\nEnter:Load  Esc:Cancel")
	}
	return faintStyle.Render("\ne:Edit  g:Generate  space:Play/Stop  w:Save  c:Mode  ←/→:Voice\n" +
		"r:Reference  o:Preview  x:Clear ref  ↑/↓:Volume  m:Mute  q:Quit")
}

// Utility functions
func renderBar(value, max, width int) string {
	if max <= 0 {
		return strings.Repeat("░", width)
	}
	filled := (value * width) / max
	if filled > width {
		filled = width
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
