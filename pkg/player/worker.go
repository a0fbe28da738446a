// ABOUTME: Background decode worker
// ABOUTME: Decodes chunks on its own goroutine, driven by protocol requests
package player

import (
	"fmt"
	"io"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio/decode"
)

// defaultChunkFrames is used when Init carries no chunk-size hint
const defaultChunkFrames = 4096

// Worker decodes audio progressively on a background goroutine. It
// consumes Requests and produces Responses; all communication is
// message passing, the worker shares no state with its consumer.
type Worker struct {
	requests  chan Request
	responses chan Response
	done      chan struct{}
}

// NewWorker starts a decode worker
func NewWorker() *Worker {
	w := &Worker{
		requests:  make(chan Request, 16),
		responses: make(chan Response, 16),
		done:      make(chan struct{}),
	}
	go w.run()
	return w
}

// Requests is the channel commands are sent on
func (w *Worker) Requests() chan<- Request { return w.requests }

// Responses is the channel decode results arrive on
func (w *Worker) Responses() <-chan Response { return w.responses }

// Close terminates the worker. In-flight responses may still be
// delivered from the channel buffer.
func (w *Worker) Close() {
	close(w.done)
}

// workerState is the decode session the worker goroutine is serving
type workerState struct {
	dec    decode.Decoder
	id     uint64
	chunk  int
	pos    time.Duration
	active bool
	paused bool
}

func (w *Worker) run() {
	var st workerState
	defer func() {
		if st.dec != nil {
			st.dec.Close()
		}
	}()

	for {
		if st.active && !st.paused {
			// Drain any pending command first so pause and seek are
			// not starved by decoding, then produce one chunk.
			select {
			case req := <-w.requests:
				w.handle(&st, req)
				continue
			case <-w.done:
				return
			default:
			}
			w.decodeChunk(&st)
		} else {
			select {
			case req := <-w.requests:
				w.handle(&st, req)
			case <-w.done:
				return
			}
		}
	}
}

func (w *Worker) handle(st *workerState, req Request) {
	switch req.Op {
	case OpInit:
		if st.dec != nil {
			st.dec.Close()
			st.dec = nil
		}
		st.id = req.ID
		st.pos = 0
		st.chunk = req.ChunkFrames
		if st.chunk <= 0 {
			st.chunk = defaultChunkFrames
		}

		dec, err := decode.New(req.Source)
		if err != nil {
			st.active = false
			w.send(Response{ID: st.id, Kind: RespError, Err: err})
			return
		}
		st.dec = dec
		st.active = true
		// Chunk delivery waits for the first Resume so a consumer on a
		// fast sink is not flooded before playback starts
		st.paused = true
		w.send(Response{
			ID:       st.id,
			Kind:     RespMetadata,
			Format:   dec.Format(),
			Metadata: dec.Metadata(),
		})

	case OpPause:
		if req.ID == st.id {
			st.paused = true
		}

	case OpResume:
		if req.ID == st.id {
			st.paused = false
		}

	case OpSeek:
		// Seek adopts the new session id; any chunk already emitted
		// under the old id is the consumer's to discard.
		if st.dec == nil {
			w.send(Response{ID: req.ID, Kind: RespError, Err: fmt.Errorf("seek with no active source")})
			return
		}
		st.id = req.ID
		if err := st.dec.Seek(req.SeekTo); err != nil {
			st.active = false
			w.send(Response{ID: st.id, Kind: RespError, Err: err})
			return
		}
		st.pos = req.SeekTo
		st.active = true
		st.paused = false
		w.send(Response{ID: st.id, Kind: RespSeekDone, Time: req.SeekTo})
	}
}

func (w *Worker) decodeChunk(st *workerState) {
	samples, err := st.dec.Next(st.chunk)
	if err != nil && err != io.EOF {
		st.active = false
		w.send(Response{ID: st.id, Kind: RespError, Err: err})
		return
	}

	if len(samples) > 0 {
		format := st.dec.Format()
		start := st.pos
		frames := len(samples) / format.Channels
		st.pos += time.Duration(frames) * time.Second / time.Duration(format.SampleRate)
		w.send(Response{ID: st.id, Kind: RespChunk, Samples: samples, Start: start})
	}

	if err == io.EOF {
		st.active = false
		w.send(Response{ID: st.id, Kind: RespEOF})
	}
}

// send delivers a response unless the worker is shutting down
func (w *Worker) send(resp Response) {
	select {
	case w.responses <- resp:
	case <-w.done:
	}
}
