// ABOUTME: Decode worker wire protocol types
// ABOUTME: Session-id-tagged requests and responses for chunked decoding
package player

import (
	"io"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
)

// Op is a request operation sent to the decode worker
type Op string

const (
	OpInit   Op = "init"
	OpPause  Op = "pause"
	OpResume Op = "resume"
	OpSeek   Op = "seek"
)

// ResponseKind tags a worker response
type ResponseKind string

const (
	RespMetadata ResponseKind = "metadata"
	RespChunk    ResponseKind = "chunk"
	RespEOF      ResponseKind = "eof"
	RespSeekDone ResponseKind = "seek_done"
	RespError    ResponseKind = "error"
)

// Request is a command sent to the decode worker. Every request carries
// the session id it belongs to; Init and Seek establish a new id, Pause
// and Resume must carry the current one or they are ignored.
type Request struct {
	ID uint64
	Op Op

	// Init only
	Source      io.ReadSeeker
	ChunkFrames int

	// Seek only
	SeekTo time.Duration
}

// Response is a message from the decode worker, tagged with the session
// id it answers. Within one session responses preserve send order:
// Metadata first, then Chunks, then EOF. Consumers must discard
// responses whose id is not the live session.
type Response struct {
	ID   uint64
	Kind ResponseKind

	// Metadata only
	Format   audio.Format
	Metadata audio.Metadata

	// Chunk only: decoded samples and the track position of the first frame
	Samples []int32
	Start   time.Duration

	// SeekDone only: the granted seek position
	Time time.Duration

	// Error only
	Err error
}
