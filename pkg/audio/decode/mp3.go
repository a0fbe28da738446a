// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 audio to int32 samples via hajimehoshi/go-mp3
package decode

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// mp3BytesPerFrame is the decoded frame size: go-mp3 always emits
// 16-bit stereo regardless of the source channel layout.
const mp3BytesPerFrame = 4

// MP3Decoder decodes MP3 audio
type MP3Decoder struct {
	src     io.ReadSeeker
	decoder *mp3.Decoder
	format  audio.Format
	meta    audio.Metadata
}

// NewMP3 creates an MP3 decoder for the source
func NewMP3(src io.ReadSeeker) (Decoder, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Encoding: "mp3", Err: err}
	}

	dec, err := mp3.NewDecoder(src)
	if err != nil {
		return nil, &Error{Encoding: "mp3", Err: err}
	}

	format := audio.Format{
		Codec:      "mp3",
		SampleRate: dec.SampleRate(),
		Channels:   2,
		BitDepth:   16,
	}

	var duration time.Duration
	if frames := dec.Length() / mp3BytesPerFrame; frames > 0 {
		duration = time.Duration(frames) * time.Second / time.Duration(format.SampleRate)
	}

	return &MP3Decoder{
		src:     src,
		decoder: dec,
		format:  format,
		meta: audio.Metadata{
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   format.BitDepth,
			Duration:   duration,
			Encoding:   "mp3",
			Tags:       map[string]string{},
		},
	}, nil
}

// Format returns the decoded stream format
func (d *MP3Decoder) Format() audio.Format { return d.format }

// Metadata returns the track metadata
func (d *MP3Decoder) Metadata() audio.Metadata { return d.meta }

// Next decodes up to the requested number of frames
func (d *MP3Decoder) Next(frames int) ([]int32, error) {
	buf := make([]byte, frames*mp3BytesPerFrame)
	n, err := io.ReadFull(d.decoder, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, &Error{Encoding: "mp3", Err: err}
	}

	n -= n % mp3BytesPerFrame
	if n == 0 {
		return nil, io.EOF
	}

	out := make([]int32, n/2)
	for i := range out {
		sample16 := int16(binary.LittleEndian.Uint16(buf[i*2:]))
		out[i] = audio.SampleFromInt16(sample16)
	}

	if err != nil {
		return out, io.EOF
	}
	return out, nil
}

// Seek repositions decoding; go-mp3 seeks are sample-accurate
func (d *MP3Decoder) Seek(offset time.Duration) error {
	frame := framesAt(offset, d.format.SampleRate)
	if _, err := d.decoder.Seek(int64(frame)*mp3BytesPerFrame, io.SeekStart); err != nil {
		return &Error{Encoding: "mp3", Err: err}
	}
	return nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error { return nil }
