// ABOUTME: Raw PCM decoder
// ABOUTME: Decodes headerless 16-bit and 24-bit PCM with a caller-supplied format
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
)

// PCMDecoder decodes headerless PCM. The format cannot be sniffed, so the
// caller supplies it; raw PCM is therefore not reachable through New.
type PCMDecoder struct {
	src           io.ReadSeeker
	format        audio.Format
	meta          audio.Metadata
	bytesPerFrame int
}

// NewPCM creates a raw PCM decoder for the source
func NewPCM(src io.ReadSeeker, format audio.Format) (Decoder, error) {
	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, &Error{Encoding: "pcm", Err: fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)}
	}
	if format.Channels < 1 || format.SampleRate < 1 {
		return nil, &Error{Encoding: "pcm", Err: fmt.Errorf("invalid format: %d channels at %dHz", format.Channels, format.SampleRate)}
	}
	format.Codec = "pcm"

	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &Error{Encoding: "pcm", Err: err}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Encoding: "pcm", Err: err}
	}

	bytesPerFrame := format.Channels * format.BitDepth / 8
	frames := size / int64(bytesPerFrame)

	return &PCMDecoder{
		src:           src,
		format:        format,
		bytesPerFrame: bytesPerFrame,
		meta: audio.Metadata{
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   format.BitDepth,
			Duration:   time.Duration(frames) * time.Second / time.Duration(format.SampleRate),
			Encoding:   "pcm",
			Tags:       map[string]string{},
		},
	}, nil
}

// Format returns the decoded stream format
func (d *PCMDecoder) Format() audio.Format { return d.format }

// Metadata returns the track metadata
func (d *PCMDecoder) Metadata() audio.Metadata { return d.meta }

// Next decodes up to the requested number of frames
func (d *PCMDecoder) Next(frames int) ([]int32, error) {
	buf := make([]byte, frames*d.bytesPerFrame)
	n, err := io.ReadFull(d.src, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, &Error{Encoding: "pcm", Err: err}
	}

	n -= n % d.bytesPerFrame
	if n == 0 {
		return nil, io.EOF
	}

	var out []int32
	if d.format.BitDepth == 24 {
		out = make([]int32, n/3)
		for i := range out {
			out[i] = audio.SampleFrom24Bit([3]byte{buf[i*3], buf[i*3+1], buf[i*3+2]})
		}
	} else {
		out = make([]int32, n/2)
		for i := range out {
			out[i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(buf[i*2:])))
		}
	}

	if err != nil {
		return out, io.EOF
	}
	return out, nil
}

// Seek repositions decoding to the byte offset of the target frame
func (d *PCMDecoder) Seek(offset time.Duration) error {
	frame := framesAt(offset, d.format.SampleRate)
	if _, err := d.src.Seek(int64(frame)*int64(d.bytesPerFrame), io.SeekStart); err != nil {
		return &Error{Encoding: "pcm", Err: err}
	}
	return nil
}

// Close releases decoder resources
func (d *PCMDecoder) Close() error { return nil }
