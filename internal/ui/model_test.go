// ABOUTME: Tests for the TUI model
// ABOUTME: Status application, key handling and render helpers
package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func durPtr(d time.Duration) *time.Duration { return &d }
func floatPtr(f float64) *float64           { return &f }

func TestApplyStatus(t *testing.T) {
	m := NewModel(nil)

	updated, _ := m.Update(StatusMsg{
		State:      "playing",
		Title:      "Test Track",
		Artist:     "Test Artist",
		Album:      "Test Album",
		Encoding:   "flac",
		SampleRate: 44100,
		Channels:   2,
		BitDepth:   16,
		Position:   durPtr(30 * time.Second),
		Duration:   durPtr(3 * time.Minute),
		Volume:     floatPtr(0.8),
	})
	m = updated.(Model)

	if m.state != "playing" {
		t.Errorf("expected state playing, got %s", m.state)
	}
	if m.title != "Test Track" || m.artist != "Test Artist" {
		t.Errorf("metadata not applied: %s / %s", m.title, m.artist)
	}
	if m.position != 30*time.Second || m.duration != 3*time.Minute {
		t.Errorf("position not applied: %v / %v", m.position, m.duration)
	}
	if m.volume != 0.8 {
		t.Errorf("volume not applied: %v", m.volume)
	}
}

func TestPartialStatusKeepsState(t *testing.T) {
	m := NewModel(nil)

	updated, _ := m.Update(StatusMsg{State: "playing", Encoding: "mp3", SampleRate: 44100, Channels: 2, BitDepth: 16})
	m = updated.(Model)
	updated, _ = m.Update(StatusMsg{Position: durPtr(5 * time.Second)})
	m = updated.(Model)

	if m.state != "playing" || m.encoding != "mp3" {
		t.Error("partial status should not clear existing fields")
	}
	if m.position != 5*time.Second {
		t.Errorf("position not applied: %v", m.position)
	}
}

func TestSpaceSendsToggle(t *testing.T) {
	ctrl := NewControl()
	m := NewModel(ctrl)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})

	select {
	case cmd := <-ctrl.Commands:
		if cmd.Action != ActionToggle {
			t.Errorf("expected toggle, got %v", cmd.Action)
		}
	default:
		t.Fatal("no command sent for space")
	}
}

func TestArrowsSendSeek(t *testing.T) {
	ctrl := NewControl()
	m := NewModel(ctrl)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})

	cmd := <-ctrl.Commands
	if cmd.Action != ActionSeekBy || cmd.SeekBy != 5*time.Second {
		t.Errorf("expected +5s seek, got %+v", cmd)
	}
	cmd = <-ctrl.Commands
	if cmd.Action != ActionSeekBy || cmd.SeekBy != -5*time.Second {
		t.Errorf("expected -5s seek, got %+v", cmd)
	}
}

func TestVolumeKeysClamp(t *testing.T) {
	ctrl := NewControl()
	m := NewModel(ctrl)

	// Volume starts at 1.0, up stays clamped
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)

	cmd := <-ctrl.Commands
	if cmd.Action != ActionVolume || cmd.Volume != 1.0 {
		t.Errorf("expected clamped volume 1.0, got %+v", cmd)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	cmd = <-ctrl.Commands
	if cmd.Volume != 0.95 {
		t.Errorf("expected volume 0.95, got %v", cmd.Volume)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewRendersTrack(t *testing.T) {
	m := NewModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	updated, _ = m.Update(StatusMsg{
		State:      "playing",
		Title:      "Some Song",
		Artist:     "Some Artist",
		Album:      "Some Album",
		Encoding:   "flac",
		SampleRate: 44100,
		Channels:   2,
		BitDepth:   16,
		Position:   durPtr(time.Minute),
		Duration:   durPtr(2 * time.Minute),
	})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"Some Song", "flac", "1:00", "2:00", "playing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewBeforeWindowSize(t *testing.T) {
	m := NewModel(nil)
	if m.View() != "Loading..." {
		t.Errorf("expected loading placeholder, got %q", m.View())
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value, max, width int
		filled            int
	}{
		{0, 100, 10, 0},
		{50, 100, 10, 5},
		{100, 100, 10, 10},
		{150, 100, 10, 10}, // clamped
	}

	for _, tt := range tests {
		bar := renderBar(tt.value, tt.max, tt.width)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("renderBar(%d, %d, %d): %d filled, expected %d",
				tt.value, tt.max, tt.width, got, tt.filled)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short string changed it: %q", got)
	}
	if got := truncate("a very long track title here", 10); got != "a very ..." {
		t.Errorf("unexpected truncation: %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{time.Minute, "1:00"},
		{3*time.Minute + 7*time.Second, "3:07"},
	}

	for _, tt := range tests {
		if got := formatTime(tt.d); got != tt.expected {
			t.Errorf("formatTime(%v) = %q, expected %q", tt.d, got, tt.expected)
		}
	}
}
