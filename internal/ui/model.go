// ABOUTME: Bubbletea model for player TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Action is a playback command triggered from the keyboard
type Action int

const (
	ActionToggle Action = iota // play when paused, pause when playing
	ActionSeekBy
	ActionVolume
)

// Command is sent to the playback wiring when the user presses a key
type Command struct {
	Action Action
	SeekBy time.Duration // ActionSeekBy: relative jump
	Volume float64       // ActionVolume: absolute gain
}

// Model represents the TUI state
type Model struct {
	// Playback
	state    string
	position time.Duration
	duration time.Duration
	volume   float64

	// Metadata
	title  string
	artist string
	album  string

	// Stream
	encoding   string
	sampleRate int
	channels   int
	bitDepth   int

	// Stats
	received int
	played   int
	dropped  int

	// Control
	ctrl *Control

	// Dimensions
	width  int
	height int
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
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderTrackInfo()
	s += m.renderProgress()
	s += m.renderStats()
	s += m.renderHelp()

	return s
}

// renderHeader renders the title bar and playback state
func (m Model) renderHeader() string {
	return fmt.Sprintf(`┌─ Chorus Player ──────────────────────────────────────┐
│ State: %-46s │
├──────────────────────────────────────────────────────┤
`, m.state)
}

// renderTrackInfo renders current track and format
func (m Model) renderTrackInfo() string {
	if m.encoding == "" {
		return "│ No track loaded                                      │\n"
	}

	s := "│ Now Playing:                                         │\n"
	if m.title != "" {
		s += fmt.Sprintf("│   Track:  %-42s │\n", truncate(m.title, 42))
		s += fmt.Sprintf("│   Artist: %-42s │\n", truncate(m.artist, 42))
		s += fmt.Sprintf("│   Album:  %-42s │\n", truncate(m.album, 42))
	} else {
		s += "│   (No metadata)                                      │\n"
	}

	s += fmt.Sprintf("│ Format: %s %dHz %s %d-bit%-19s │\n",
		m.encoding, m.sampleRate, channelName(m.channels), m.bitDepth, "")

	return s
}

// renderProgress renders the position bar and volume
func (m Model) renderProgress() string {
	progress := 0
	if m.duration > 0 {
		progress = int(m.position * 100 / m.duration)
	}

	return fmt.Sprintf("│                                                      │\n"+
		"│ %s / %s [%s]%-12s │\n"+
		"│ Volume: [%s] %3.0f%%%-26s │\n",
		formatTime(m.position), formatTime(m.duration), renderBar(progress, 100, 20), "",
		renderBar(int(m.volume*100), 100, 10), m.volume*100, "")
}

// renderStats renders chunk statistics for the streaming path
func (m Model) renderStats() string {
	if m.received == 0 {
		return ""
	}
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Chunks:  RX: %d  Played: %d  Dropped: %d%-10s │
`, m.received, m.played, m.dropped, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ space:Play/Pause  ←/→:Seek  ↑/↓:Volume  q:Quit      │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.send(Command{Action: ActionToggle})
	case "left":
		m.send(Command{Action: ActionSeekBy, SeekBy: -5 * time.Second})
	case "right":
		m.send(Command{Action: ActionSeekBy, SeekBy: 5 * time.Second})
	case "up":
		m.volume += 0.05
		if m.volume > 1 {
			m.volume = 1
		}
		m.send(Command{Action: ActionVolume, Volume: m.volume})
	case "down":
		m.volume -= 0.05
		if m.volume < 0 {
			m.volume = 0
		}
		m.send(Command{Action: ActionVolume, Volume: m.volume})
	}

	return m, nil
}

// send forwards a command without blocking the update loop
func (m Model) send(cmd Command) {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Commands <- cmd:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Title != "" {
		m.title = msg.Title
		m.artist = msg.Artist
		m.album = msg.Album
	}
	if msg.Encoding != "" {
		m.encoding = msg.Encoding
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.bitDepth = msg.BitDepth
	}
	if msg.Position != nil {
		m.position = *msg.Position
	}
	if msg.Duration != nil {
		m.duration = *msg.Duration
	}
	if msg.Volume != nil {
		m.volume = *msg.Volume
	}
	if msg.Received != 0 {
		m.received = msg.Received
		m.played = msg.Played
		m.dropped = msg.Dropped
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	State      string
	Title      string
	Artist     string
	Album      string
	Encoding   string
	SampleRate int
	Channels   int
	BitDepth   int
	Position   *time.Duration
	Duration   *time.Duration
	Volume     *float64
	Received   int
	Played     int
	Dropped    int
}

// Utility functions
func renderBar(value, max, width int) string {
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
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}

func formatTime(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
