// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes Ogg-encapsulated Opus to int32 samples via hraban/opus
package decode

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
	opus "gopkg.in/hraban/opus.v2"
)

// opusSampleRate is fixed: libopus always decodes at 48kHz
const opusSampleRate = 48000

// OpusDecoder decodes Ogg Opus audio. Output is treated as stereo, the
// overwhelmingly common channel layout for Ogg Opus music files.
type OpusDecoder struct {
	src    io.ReadSeeker
	stream *opus.Stream
	format audio.Format
	meta   audio.Metadata
}

// NewOpus creates an Ogg Opus decoder for the source
func NewOpus(src io.ReadSeeker) (Decoder, error) {
	duration := oggDuration(src)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Encoding: "opus", Err: err}
	}
	stream, err := opus.NewStream(src)
	if err != nil {
		return nil, &Error{Encoding: "opus", Err: err}
	}

	format := audio.Format{
		Codec:      "opus",
		SampleRate: opusSampleRate,
		Channels:   2,
		BitDepth:   16,
	}

	return &OpusDecoder{
		src:    src,
		stream: stream,
		format: format,
		meta: audio.Metadata{
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   format.BitDepth,
			Duration:   duration,
			Encoding:   "opus",
			Tags:       map[string]string{},
		},
	}, nil
}

// Format returns the decoded stream format
func (d *OpusDecoder) Format() audio.Format { return d.format }

// Metadata returns the track metadata
func (d *OpusDecoder) Metadata() audio.Metadata { return d.meta }

// Next decodes up to the requested number of frames
func (d *OpusDecoder) Next(frames int) ([]int32, error) {
	pcm := make([]int16, frames*d.format.Channels)
	n, err := d.stream.Read(pcm)
	if err != nil && err != io.EOF {
		return nil, &Error{Encoding: "opus", Err: err}
	}
	if n == 0 {
		return nil, io.EOF
	}

	total := n * d.format.Channels
	out := make([]int32, total)
	for i := 0; i < total; i++ {
		out[i] = audio.SampleFromInt16(pcm[i])
	}

	if err == io.EOF {
		return out, io.EOF
	}
	return out, nil
}

// Seek repositions decoding by reopening the stream and skipping frames;
// the Opus stream API has no native seek.
func (d *OpusDecoder) Seek(offset time.Duration) error {
	if _, err := d.src.Seek(0, io.SeekStart); err != nil {
		return &Error{Encoding: "opus", Err: err}
	}
	stream, err := opus.NewStream(d.src)
	if err != nil {
		return &Error{Encoding: "opus", Err: err}
	}
	d.stream = stream
	return discardFrames(d, framesAt(offset, d.format.SampleRate))
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error { return nil }

// oggDuration derives the track length from the granule position of the
// last Ogg page. Granule positions for Opus are in 48kHz units.
func oggDuration(rs io.ReadSeeker) time.Duration {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0
	}

	const tailSize = 64 * 1024
	off := size - tailSize
	if off < 0 {
		off = 0
	}
	if _, err := rs.Seek(off, io.SeekStart); err != nil {
		return 0
	}

	tail, err := io.ReadAll(rs)
	if err != nil {
		return 0
	}

	idx := bytes.LastIndex(tail, []byte("OggS"))
	if idx < 0 || idx+14 > len(tail) {
		return 0
	}

	granule := binary.LittleEndian.Uint64(tail[idx+6:])
	if granule == ^uint64(0) {
		return 0
	}
	return time.Duration(granule) * time.Second / opusSampleRate
}
