// ABOUTME: Transport controller for decoded-buffer playback
// ABOUTME: Play/pause/seek/volume with a clock-derived playback position
package player

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
	"github.com/Chorus-Player/chorus-go/pkg/audio/decode"
	"github.com/Chorus-Player/chorus-go/pkg/audio/output"
)

// State is the lifecycle of one load/playback session
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	StateError   State = "error"
)

const (
	// defaultTickInterval is the cadence for timeupdate events and
	// end-of-track detection. The position itself is derived from the
	// clock on every read, the ticker only drives notifications.
	defaultTickInterval = 250 * time.Millisecond

	// feedChunkFrames is how many frames the feeder hands to the
	// output per write
	feedChunkFrames = 4096
)

// Options configures a Transport
type Options struct {
	// Output is the audio sink. Defaults to a null output.
	Output output.Output

	// Clock is the position time source. Defaults to the system
	// monotonic clock.
	Clock Clock

	// TickInterval overrides the timeupdate cadence
	TickInterval time.Duration
}

// Transport owns a decoded buffer and answers playback commands.
// The playback position is always computed from the clock:
// playing means now minus startTime, paused means the frozen pausedTime.
// Exactly one of the two holds at any moment.
type Transport struct {
	mu     sync.Mutex
	events *Emitter
	out    output.Output
	clock  Clock
	tick   time.Duration

	state     State
	buffer    *audio.Buffer
	meta      audio.Metadata
	trackName string
	volume    float64

	startTime  time.Duration
	pausedTime time.Duration
	playing    bool

	// generation guards against a slow decode installing its result
	// after a newer Load has superseded it
	generation int
	feedStop   chan struct{}

	done   chan struct{}
	closed bool
}

// NewTransport creates a transport controller
func NewTransport(opts Options) *Transport {
	if opts.Output == nil {
		opts.Output = output.NewNull()
	}
	if opts.Clock == nil {
		opts.Clock = NewSystemClock()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}

	t := &Transport{
		events: NewEmitter(),
		out:    opts.Output,
		clock:  opts.Clock,
		tick:   opts.TickInterval,
		state:  StateIdle,
		volume: 1.0,
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

// On registers a listener for the event type and returns a handle for Off
func (t *Transport) On(ev EventType, fn Listener) int {
	return t.events.On(ev, fn)
}

// Off removes a listener registered under the handle
func (t *Transport) Off(ev EventType, id int) {
	t.events.Off(ev, id)
}

// Load decodes a track and installs it as the active buffer.
// Any current playback is paused first. On decode failure no buffer is
// swapped in: the previous track stays installed (paused) and the error
// is reported both as a return value and an error event. A Load
// superseded by a newer Load is discarded silently.
func (t *Transport) Load(name string, src io.ReadSeeker) (audio.Metadata, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return audio.Metadata{}, fmt.Errorf("transport closed")
	}
	if t.playing {
		t.haltPlaybackLocked()
		t.state = StatePaused
	}
	t.generation++
	gen := t.generation
	t.state = StateLoading
	t.mu.Unlock()

	buf, meta, err := decode.ReadAll(src)

	t.mu.Lock()
	if t.closed || gen != t.generation {
		t.mu.Unlock()
		return audio.Metadata{}, nil
	}

	if err != nil {
		t.state = StateError
		t.mu.Unlock()
		log.Printf("Load failed for %q: %v", name, err)
		t.events.Emit(Event{Type: EventError, Err: err})
		return audio.Metadata{}, err
	}

	if openErr := t.out.Open(buf.Format); openErr != nil {
		t.state = StateError
		t.mu.Unlock()
		log.Printf("Output open failed for %q: %v", name, openErr)
		t.events.Emit(Event{Type: EventError, Err: openErr})
		return audio.Metadata{}, openErr
	}

	t.out.Reset()
	t.out.Pause()
	t.buffer = buf
	t.meta = meta
	t.trackName = name
	t.startTime = 0
	t.pausedTime = 0
	t.playing = false
	t.state = StateReady
	t.mu.Unlock()

	log.Printf("Loaded %q: %s %dHz %dch, %v", name, meta.Encoding, meta.SampleRate, meta.Channels, meta.Duration)
	t.events.Emit(Event{Type: EventLoaded})
	return meta, nil
}

// Play starts playback from the current position.
// A no-op when already playing or when no track is loaded.
func (t *Transport) Play() {
	t.mu.Lock()
	if t.closed || t.playing || t.buffer == nil {
		t.mu.Unlock()
		return
	}
	// Playing again after the track ended restarts from the top
	if t.pausedTime >= t.buffer.Duration() {
		t.pausedTime = 0
	}
	t.startPlaybackLocked()
	t.state = StatePlaying
	t.mu.Unlock()

	t.events.Emit(Event{Type: EventPlay})
}

// Pause freezes playback at the current position.
// A no-op when not playing.
func (t *Transport) Pause() {
	t.mu.Lock()
	if t.closed || !t.playing {
		t.mu.Unlock()
		return
	}
	t.haltPlaybackLocked()
	t.state = StatePaused
	t.mu.Unlock()

	t.events.Emit(Event{Type: EventPause})
}

// Seek moves the position to target, clamped to the track bounds,
// preserving the playing/paused state across the jump. A no-op when no
// track is loaded. Only a seeked event fires, not pause/play.
func (t *Transport) Seek(target time.Duration) {
	t.mu.Lock()
	if t.closed || t.buffer == nil {
		t.mu.Unlock()
		return
	}
	if target < 0 {
		target = 0
	}
	if dur := t.buffer.Duration(); target > dur {
		target = dur
	}

	wasPlaying := t.playing
	if wasPlaying {
		t.haltPlaybackLocked()
	}
	t.pausedTime = target
	t.out.Reset()
	if wasPlaying {
		t.startPlaybackLocked()
	} else {
		t.out.Pause()
	}
	t.mu.Unlock()

	t.events.Emit(Event{Type: EventSeeked, Position: target})
}

// SetVolume applies the gain immediately, clamped to 0.0 to 1.0
func (t *Transport) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.volume = volume
	t.out.SetVolume(volume)
	t.mu.Unlock()

	t.events.Emit(Event{Type: EventVolumeChange, Volume: volume})
}

// Position returns the current playback position, derived from the clock
func (t *Transport) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.positionLocked()
}

func (t *Transport) positionLocked() time.Duration {
	if !t.playing {
		return t.pausedTime
	}
	pos := t.clock.Now() - t.startTime
	if pos < 0 {
		pos = 0
	}
	if dur := t.buffer.Duration(); pos > dur {
		pos = dur
	}
	return pos
}

// TrackDuration returns the loaded track's duration, or 0 when unloaded
func (t *Transport) TrackDuration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buffer == nil {
		return 0
	}
	return t.buffer.Duration()
}

// State returns the current lifecycle state
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Metadata returns the loaded track's metadata
func (t *Transport) Metadata() audio.Metadata {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.meta
}

// TrackName returns the name passed to the last successful Load
func (t *Transport) TrackName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trackName
}

// Volume returns the current gain
func (t *Transport) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

// Close stops playback and releases the output
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	if t.playing {
		t.haltPlaybackLocked()
	}
	close(t.done)
	t.mu.Unlock()

	return t.out.Close()
}

// startPlaybackLocked anchors the clock at the current position and
// starts the feeder. Callers hold the lock and emit events afterwards.
func (t *Transport) startPlaybackLocked() {
	from := t.pausedTime
	t.startTime = t.clock.Now() - from
	t.pausedTime = 0
	t.playing = true

	// Discard buffered audio and unblock a previous feeder still
	// parked in Write before starting a fresh one.
	t.out.Reset()

	stop := make(chan struct{})
	t.feedStop = stop
	go t.feed(t.buffer, from, stop)
	t.out.Resume()
}

// haltPlaybackLocked freezes the position and stops the feeder.
// Callers hold the lock and emit events afterwards.
func (t *Transport) haltPlaybackLocked() {
	t.pausedTime = t.positionLocked()
	t.playing = false
	if t.feedStop != nil {
		close(t.feedStop)
		t.feedStop = nil
	}
	t.out.Pause()
}

// feed writes the buffer to the output in chunks until done or stopped.
// Write blocks at the device's pace, so stopping between chunks keeps
// pause and seek responsive.
func (t *Transport) feed(buf *audio.Buffer, from time.Duration, stop chan struct{}) {
	frame := int(from * time.Duration(buf.Format.SampleRate) / time.Second)
	idx := frame * buf.Format.Channels
	step := feedChunkFrames * buf.Format.Channels

	for idx < len(buf.Samples) {
		select {
		case <-stop:
			return
		default:
		}

		end := idx + step
		if end > len(buf.Samples) {
			end = len(buf.Samples)
		}
		if err := t.out.Write(buf.Samples[idx:end]); err != nil {
			return
		}
		idx = end
	}
}

// run drives timeupdate events and end-of-track detection
func (t *Transport) run() {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.mu.Lock()
			if !t.playing {
				t.mu.Unlock()
				continue
			}

			pos := t.positionLocked()
			var ev Event
			if pos >= t.buffer.Duration() {
				t.haltPlaybackLocked()
				t.pausedTime = t.buffer.Duration()
				t.state = StatePaused
				ev = Event{Type: EventEnded}
			} else {
				ev = Event{Type: EventTimeUpdate, Position: pos}
			}
			t.mu.Unlock()

			t.events.Emit(ev)
		}
	}
}
