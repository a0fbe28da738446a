// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Control carries playback commands from the TUI to the player wiring
type Control struct {
	Commands chan Command
}

// NewControl creates a control channel set
func NewControl() *Control {
	return &Control{
		Commands: make(chan Command, 10),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		volume: 1.0,
		state:  "idle",
		ctrl:   ctrl,
	}
}

// Run starts the TUI
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
