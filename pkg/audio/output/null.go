// ABOUTME: Null audio output implementation
// ABOUTME: Consumes samples without a device, for tests and headless use
package output

import (
	"fmt"
	"sync"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
)

// Null output that discards samples. Writes never block, so playback
// logic can be driven at full speed in tests.
type Null struct {
	mu      sync.Mutex
	format  audio.Format
	volume  float64
	paused  bool
	open    bool
	written int // total samples accepted
	resets  int
}

// NewNull creates a new null output
func NewNull() *Null {
	return &Null{volume: 1.0}
}

// Open initializes the output for the given format
func (n *Null) Open(format audio.Format) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.format = format
	n.open = true
	return nil
}

// Write accepts and discards audio samples
func (n *Null) Write(samples []int32) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.open {
		return fmt.Errorf("output not initialized")
	}
	n.written += len(samples)
	return nil
}

// Pause suspends playback
func (n *Null) Pause() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paused = true
}

// Resume continues playback
func (n *Null) Resume() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paused = false
}

// Reset discards buffered audio
func (n *Null) Reset() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets++
	return nil
}

// SetVolume sets the playback gain (0.0 to 1.0, clamped)
func (n *Null) SetVolume(volume float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.volume = clampVolume(volume)
}

// Volume returns the current playback gain
func (n *Null) Volume() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.volume
}

// Close releases output resources
func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.open = false
	return nil
}

// Written reports the total number of samples accepted
func (n *Null) Written() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.written
}

// Paused reports whether the output is paused
func (n *Null) Paused() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.paused
}

// Resets reports how many times the output was reset
func (n *Null) Resets() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resets
}
