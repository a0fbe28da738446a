// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAVE sources to int32 samples via youpy/go-wav
package decode

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
	"github.com/youpy/go-wav"
)

// wavSource is what the RIFF parser needs from a source: random access
// in addition to sequential reads.
type wavSource interface {
	io.Reader
	io.ReaderAt
}

// WAVDecoder decodes RIFF/WAVE audio
type WAVDecoder struct {
	src    io.ReadSeeker
	reader *wav.Reader
	format audio.Format
	meta   audio.Metadata
}

// newWAVSource adapts src for the RIFF parser. Files and in-memory
// readers already support ReadAt and are wrapped in a section reader;
// anything else is buffered in full.
func newWAVSource(src io.ReadSeeker) (wavSource, error) {
	if ra, ok := src.(io.ReaderAt); ok {
		size, err := src.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, err
		}
		return io.NewSectionReader(ra, 0, size), nil
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// NewWAV creates a WAV decoder for the source
func NewWAV(src io.ReadSeeker) (Decoder, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Encoding: "wav", Err: err}
	}

	riffSrc, err := newWAVSource(src)
	if err != nil {
		return nil, &Error{Encoding: "wav", Err: err}
	}
	reader := wav.NewReader(riffSrc)
	f, err := reader.Format()
	if err != nil {
		return nil, &Error{Encoding: "wav", Err: err}
	}

	switch f.BitsPerSample {
	case 8, 16, 24:
	default:
		return nil, &Error{Encoding: "wav", Err: fmt.Errorf("unsupported bit depth: %d", f.BitsPerSample)}
	}
	if f.NumChannels < 1 || f.NumChannels > 2 {
		return nil, &Error{Encoding: "wav", Err: fmt.Errorf("unsupported channel count: %d", f.NumChannels)}
	}

	duration, err := reader.Duration()
	if err != nil {
		duration = 0
	}

	format := audio.Format{
		Codec:      "wav",
		SampleRate: int(f.SampleRate),
		Channels:   int(f.NumChannels),
		BitDepth:   int(f.BitsPerSample),
	}

	return &WAVDecoder{
		src:    src,
		reader: reader,
		format: format,
		meta: audio.Metadata{
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   format.BitDepth,
			Duration:   duration,
			Encoding:   "wav",
			Tags:       map[string]string{},
		},
	}, nil
}

// Format returns the decoded stream format
func (d *WAVDecoder) Format() audio.Format { return d.format }

// Metadata returns the track metadata
func (d *WAVDecoder) Metadata() audio.Metadata { return d.meta }

// Next decodes up to the requested number of frames
func (d *WAVDecoder) Next(frames int) ([]int32, error) {
	samples, err := d.reader.ReadSamples(uint32(frames))
	if err != nil && err != io.EOF {
		return nil, &Error{Encoding: "wav", Err: err}
	}
	if len(samples) == 0 {
		return nil, io.EOF
	}

	out := make([]int32, 0, len(samples)*d.format.Channels)
	for _, s := range samples {
		for ch := 0; ch < d.format.Channels; ch++ {
			out = append(out, wavSampleToInt32(s.Values[ch], d.format.BitDepth))
		}
	}

	if err == io.EOF {
		return out, io.EOF
	}
	return out, nil
}

// Seek repositions decoding by rewinding and skipping frames
func (d *WAVDecoder) Seek(offset time.Duration) error {
	if _, err := d.src.Seek(0, io.SeekStart); err != nil {
		return &Error{Encoding: "wav", Err: err}
	}
	riffSrc, err := newWAVSource(d.src)
	if err != nil {
		return &Error{Encoding: "wav", Err: err}
	}
	d.reader = wav.NewReader(riffSrc)
	if _, err := d.reader.Format(); err != nil {
		return &Error{Encoding: "wav", Err: err}
	}
	return discardFrames(d, framesAt(offset, d.format.SampleRate))
}

// Close releases decoder resources
func (d *WAVDecoder) Close() error { return nil }

// wavSampleToInt32 converts a raw WAV sample value to the 24-bit int32 range
func wavSampleToInt32(value, bitDepth int) int32 {
	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned
		return int32(value-128) << 16
	case 24:
		return int32(value)
	default:
		return audio.SampleFromInt16(int16(value))
	}
}
