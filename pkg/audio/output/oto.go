// ABOUTME: Oto-based audio output implementation
// ABOUTME: Handles PCM playback with software volume control using oto library
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int
	volume     float64
	paused     bool
	ready      bool
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{volume: 1.0}
}

// Open initializes the output device
func (o *Oto) Open(format audio.Format) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// oto only supports 16-bit output; higher depths are truncated on write
	if format.BitDepth > 16 {
		log.Printf("Output is 16-bit, truncating %d-bit samples", format.BitDepth)
	}

	// oto allows one context per process, so a matching format reuses it
	if o.otoCtx != nil && o.sampleRate == format.SampleRate && o.channels == format.Channels {
		o.startPlayerLocked()
		return nil
	}
	if o.otoCtx != nil {
		log.Printf("Warning: format change (%dHz %dch -> %dHz %dch) but oto cannot reinitialize, keeping existing context",
			o.sampleRate, o.channels, format.SampleRate, format.Channels)
		o.startPlayerLocked()
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = format.SampleRate
	o.channels = format.Channels
	o.startPlayerLocked()

	log.Printf("Audio output initialized: %dHz, %d channels", format.SampleRate, format.Channels)

	return nil
}

// startPlayerLocked creates a fresh pipe and persistent player reading from it
func (o *Oto) startPlayerLocked() {
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.paused = false
	o.ready = true
}

// Write outputs audio samples (blocks until written)
func (o *Oto) Write(samples []int32) error {
	o.mu.Lock()
	if !o.ready {
		o.mu.Unlock()
		return fmt.Errorf("output not initialized")
	}
	volume := o.volume
	pw := o.pipeWriter
	o.mu.Unlock()

	scaled := applyVolume(samples, volume)

	// Convert int32 samples to 16-bit little-endian bytes for oto
	out := make([]byte, len(scaled)*2)
	for i, sample := range scaled {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(audio.SampleToInt16(sample)))
	}

	// The write blocks until the player drains the pipe; the lock is not
	// held here so Pause, Reset and Close stay responsive.
	if _, err := pw.Write(out); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Pause suspends playback without discarding buffered audio
func (o *Oto) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil && !o.paused {
		o.player.Pause()
		o.paused = true
	}
}

// Resume continues playback after Pause
func (o *Oto) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil && o.paused {
		o.player.Play()
		o.paused = false
	}
}

// Reset discards buffered audio by replacing the pipe and player.
// Any Write blocked on the old pipe fails with io.ErrClosedPipe.
func (o *Oto) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.otoCtx == nil {
		return nil
	}

	if o.pipeWriter != nil {
		o.pipeWriter.CloseWithError(io.ErrClosedPipe)
	}
	if o.player != nil {
		o.player.Close()
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
	}

	o.startPlayerLocked()
	return nil
}

// SetVolume sets the playback gain (0.0 to 1.0, clamped)
func (o *Oto) SetVolume(volume float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = clampVolume(volume)
}

// Volume returns the current playback gain
func (o *Oto) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
	}
	o.ready = false
	return nil
}
