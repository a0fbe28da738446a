// ABOUTME: Decoder interface, container sniffing and whole-file decode
// ABOUTME: Common entry points for all audio decoders
package decode

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
)

// ErrUnknownFormat reports a source whose container could not be recognized
var ErrUnknownFormat = errors.New("unrecognized audio container")

// Error reports a source that could not be decoded: unsupported format,
// truncated stream, or a codec-level failure.
type Error struct {
	Encoding string // best-effort codec name, empty when sniffing failed
	Err      error
}

func (e *Error) Error() string {
	if e.Encoding == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Encoding, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CoverSaver persists embedded artwork and returns a path for Metadata.CoverPath
type CoverSaver interface {
	Save(mime string, data []byte) (string, error)
}

// coverSaver is the optional global artwork sink
var coverSaver CoverSaver

// SetCoverSaver installs the artwork sink used for embedded cover art.
// When unset, covers are silently dropped.
func SetCoverSaver(s CoverSaver) {
	coverSaver = s
}

// saveCover hands embedded artwork to the configured sink
func saveCover(mime string, data []byte) string {
	if coverSaver == nil || len(data) == 0 {
		return ""
	}
	path, err := coverSaver.Save(mime, data)
	if err != nil {
		return ""
	}
	return path
}

// Decoder progressively decodes one audio source to interleaved int32 PCM
type Decoder interface {
	// Format returns the decoded stream format
	Format() audio.Format

	// Metadata returns the track metadata extracted at open time
	Metadata() audio.Metadata

	// Next decodes up to the requested number of frames. It may return
	// fewer. io.EOF is returned once the source is exhausted, possibly
	// alongside the final samples.
	Next(frames int) ([]int32, error)

	// Seek repositions decoding to the given offset from the start
	Seek(offset time.Duration) error

	// Close releases decoder resources
	Close() error
}

// New sniffs the source container and returns a matching decoder
func New(src io.ReadSeeker) (Decoder, error) {
	var magic [12]byte
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Err: err}
	}
	if _, err := io.ReadFull(src, magic[:]); err != nil {
		return nil, &Error{Err: fmt.Errorf("source too short: %w", err)}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Err: err}
	}

	switch {
	case string(magic[0:4]) == "RIFF" && string(magic[8:12]) == "WAVE":
		return NewWAV(src)
	case string(magic[0:4]) == "fLaC":
		return NewFLAC(src)
	case string(magic[0:4]) == "OggS":
		return NewOpus(src)
	case string(magic[0:3]) == "ID3",
		magic[0] == 0xFF && magic[1]&0xE0 == 0xE0:
		return NewMP3(src)
	default:
		return nil, &Error{Err: ErrUnknownFormat}
	}
}

// ReadAll decodes the whole source into one buffer plus its metadata
func ReadAll(src io.ReadSeeker) (*audio.Buffer, audio.Metadata, error) {
	dec, err := New(src)
	if err != nil {
		return nil, audio.Metadata{}, err
	}
	defer dec.Close()

	var samples []int32
	for {
		chunk, err := dec.Next(8192)
		samples = append(samples, chunk...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, audio.Metadata{}, err
		}
	}

	buf := &audio.Buffer{
		Samples: samples,
		Format:  dec.Format(),
	}

	meta := dec.Metadata()
	if meta.Duration == 0 {
		meta.Duration = buf.Duration()
	}

	return buf, meta, nil
}

// framesAt converts a time offset to a frame index at the given rate
func framesAt(offset time.Duration, sampleRate int) int {
	if offset < 0 {
		return 0
	}
	return int(offset * time.Duration(sampleRate) / time.Second)
}

// discardFrames reads and drops frames from a decoder, used by seek
// implementations without native repositioning. Running out of source is
// not an error: the position clamps to the end.
func discardFrames(dec Decoder, frames int) error {
	for frames > 0 {
		step := frames
		if step > 8192 {
			step = 8192
		}
		chunk, err := dec.Next(step)
		if dec.Format().Channels > 0 {
			frames -= len(chunk) / dec.Format().Channels
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
