// ABOUTME: Streaming playback controller over the decode worker
// ABOUTME: Chunked playback with session-id filtering of stale responses
package player

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
	"github.com/Chorus-Player/chorus-go/pkg/audio/output"
)

// StreamStats counts worker responses seen by the controller
type StreamStats struct {
	Received int // all responses read from the worker
	Played   int // chunks written to the output
	Dropped  int // responses discarded for carrying a stale session id
}

// Stream plays a track by chunked decode on a background worker,
// emitting the same lifecycle events as Transport. Every Load and Seek
// establishes a new session id; responses tagged with a superseded id
// are discarded silently, which is what makes overlapping seek and
// reload races safe.
type Stream struct {
	mu     sync.Mutex
	events *Emitter
	out    output.Output
	worker *Worker

	id     uint64 // live session id, 0 means no session
	nextID uint64

	format  audio.Format
	meta    audio.Metadata
	state   State
	playing bool
	volume  float64
	pos     time.Duration
	stats   StreamStats

	done   chan struct{}
	closed bool
}

// NewStream creates a streaming controller with its own decode worker
func NewStream(out output.Output) *Stream {
	if out == nil {
		out = output.NewNull()
	}
	s := &Stream{
		events: NewEmitter(),
		out:    out,
		worker: NewWorker(),
		state:  StateIdle,
		volume: 1.0,
		done:   make(chan struct{}),
	}
	go s.pump()
	return s
}

// On registers a listener for the event type and returns a handle for Off
func (s *Stream) On(ev EventType, fn Listener) int {
	return s.events.On(ev, fn)
}

// Off removes a listener registered under the handle
func (s *Stream) Off(ev EventType, id int) {
	s.events.Off(ev, id)
}

// Load starts a new decode session for the source. The call returns
// once the request is queued; loaded (or error) fires when the worker
// answers. A chunkFrames of 0 uses the worker default.
func (s *Stream) Load(src io.ReadSeeker, chunkFrames int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.nextID++
	s.id = s.nextID
	s.state = StateLoading
	s.playing = false
	s.pos = 0
	id := s.id
	s.mu.Unlock()

	s.worker.Requests() <- Request{ID: id, Op: OpInit, Source: src, ChunkFrames: chunkFrames}
}

// Play resumes chunk delivery and the output.
// A no-op when already playing or when no session is live.
func (s *Stream) Play() {
	s.mu.Lock()
	if s.closed || s.playing || s.id == 0 || s.state == StateLoading {
		s.mu.Unlock()
		return
	}
	s.playing = true
	s.state = StatePlaying
	id := s.id
	s.mu.Unlock()

	s.worker.Requests() <- Request{ID: id, Op: OpResume}
	s.out.Resume()
	s.events.Emit(Event{Type: EventPlay})
}

// Pause suspends chunk delivery and the output.
// A no-op when not playing.
func (s *Stream) Pause() {
	s.mu.Lock()
	if s.closed || !s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = false
	s.state = StatePaused
	id := s.id
	s.mu.Unlock()

	s.worker.Requests() <- Request{ID: id, Op: OpPause}
	s.out.Pause()
	s.events.Emit(Event{Type: EventPause})
}

// Seek jumps to target under a fresh session id. Chunks still in
// flight for the old id are dropped by the pump; seeked fires when the
// worker acknowledges with the granted position.
func (s *Stream) Seek(target time.Duration) {
	s.mu.Lock()
	if s.closed || s.id == 0 {
		s.mu.Unlock()
		return
	}
	if target < 0 {
		target = 0
	}
	s.nextID++
	s.id = s.nextID
	id := s.id
	paused := !s.playing
	s.mu.Unlock()

	s.out.Reset()
	s.worker.Requests() <- Request{ID: id, Op: OpSeek, SeekTo: target}
	if paused {
		// Seek acknowledgment resumes delivery in the worker, so a
		// paused stream pauses again under the new id
		s.out.Pause()
		s.worker.Requests() <- Request{ID: id, Op: OpPause}
	}
}

// SetVolume applies the gain immediately, clamped to 0.0 to 1.0
func (s *Stream) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.volume = volume
	s.out.SetVolume(volume)
	s.mu.Unlock()

	s.events.Emit(Event{Type: EventVolumeChange, Volume: volume})
}

// Position returns the track position after the last chunk played
func (s *Stream) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// State returns the current lifecycle state
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TrackDuration returns the live session's track duration
func (s *Stream) TrackDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta.Duration
}

// Metadata returns the live session's track metadata
func (s *Stream) Metadata() audio.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// Volume returns the current gain
func (s *Stream) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Stats returns response counters for the controller
func (s *Stream) Stats() StreamStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close terminates the worker and releases the output
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.worker.Close()
	return s.out.Close()
}

// pump consumes worker responses, discarding any whose session id is
// not the live one.
func (s *Stream) pump() {
	for {
		select {
		case <-s.done:
			return
		case resp := <-s.worker.Responses():
			s.handle(resp)
		}
	}
}

func (s *Stream) handle(resp Response) {
	s.mu.Lock()
	s.stats.Received++
	if resp.ID != s.id {
		s.stats.Dropped++
		s.mu.Unlock()
		return
	}

	switch resp.Kind {
	case RespMetadata:
		s.format = resp.Format
		s.meta = resp.Metadata
		s.state = StateReady
		out := s.out
		s.mu.Unlock()

		if err := out.Open(resp.Format); err != nil {
			s.mu.Lock()
			s.state = StateError
			s.mu.Unlock()
			s.events.Emit(Event{Type: EventError, Err: err})
			return
		}
		out.Pause()
		s.events.Emit(Event{Type: EventLoaded})

	case RespChunk:
		out := s.out
		format := s.format
		s.mu.Unlock()

		// Blocks at the device's pace; stale responses queuing up
		// behind this write are dropped once the pump drains them.
		if err := out.Write(resp.Samples); err != nil {
			log.Printf("Chunk write failed: %v", err)
			return
		}

		s.mu.Lock()
		if resp.ID == s.id {
			s.stats.Played++
			frames := len(resp.Samples) / format.Channels
			s.pos = resp.Start + time.Duration(frames)*time.Second/time.Duration(format.SampleRate)
		}
		s.mu.Unlock()

	case RespSeekDone:
		s.pos = resp.Time
		s.mu.Unlock()
		s.events.Emit(Event{Type: EventSeeked, Position: resp.Time})

	case RespEOF:
		s.playing = false
		s.state = StatePaused
		s.mu.Unlock()
		s.events.Emit(Event{Type: EventEnded})

	case RespError:
		s.playing = false
		s.state = StateError
		s.mu.Unlock()
		log.Printf("Worker error: %v", resp.Err)
		s.events.Emit(Event{Type: EventError, Err: resp.Err})

	default:
		s.mu.Unlock()
	}
}
