// ABOUTME: FLAC audio decoder
// ABOUTME: Frame-by-frame decoding plus Vorbis-comment tags via mewkiz/flac
package decode

import (
	"io"
	"strings"
	"time"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct {
	src     io.ReadSeeker
	stream  *flac.Stream
	format  audio.Format
	meta    audio.Metadata
	pending []int32
	shift   uint // left shift to position samples in the 24-bit range
}

// NewFLAC creates a FLAC decoder for the source.
// Metadata blocks (StreamInfo, Vorbis comments, embedded picture) are read
// in a first pass, then the stream is reopened in seekable mode for audio.
func NewFLAC(src io.ReadSeeker) (Decoder, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Encoding: "flac", Err: err}
	}

	metaStream, err := flac.Parse(src)
	if err != nil {
		return nil, &Error{Encoding: "flac", Err: err}
	}

	info := metaStream.Info
	format := audio.Format{
		Codec:      "flac",
		SampleRate: int(info.SampleRate),
		Channels:   int(info.NChannels),
		BitDepth:   int(info.BitsPerSample),
	}

	md := audio.Metadata{
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   format.BitDepth,
		Encoding:   "flac",
		Tags:       map[string]string{},
	}
	if info.NSamples > 0 {
		md.Duration = time.Duration(info.NSamples) * time.Second / time.Duration(info.SampleRate)
	}

	for _, block := range metaStream.Blocks {
		switch body := block.Body.(type) {
		case *meta.VorbisComment:
			for _, tag := range body.Tags {
				md.Tags[strings.ToUpper(tag[0])] = tag[1]
			}
		case *meta.Picture:
			if md.CoverPath == "" {
				md.CoverPath = saveCover(body.MIME, body.Data)
			}
		}
	}

	// Second pass in seekable mode for the audio frames
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Encoding: "flac", Err: err}
	}
	stream, err := flac.NewSeek(src)
	if err != nil {
		return nil, &Error{Encoding: "flac", Err: err}
	}

	return &FLACDecoder{
		src:    src,
		stream: stream,
		format: format,
		meta:   md,
		shift:  uint(24 - format.BitDepth),
	}, nil
}

// Format returns the decoded stream format
func (d *FLACDecoder) Format() audio.Format { return d.format }

// Metadata returns the track metadata
func (d *FLACDecoder) Metadata() audio.Metadata { return d.meta }

// Next decodes up to the requested number of frames
func (d *FLACDecoder) Next(frames int) ([]int32, error) {
	want := frames * d.format.Channels

	for len(d.pending) < want {
		fr, err := d.stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &Error{Encoding: "flac", Err: err}
		}

		n := fr.Subframes[0].NSamples
		for i := 0; i < n; i++ {
			for _, sub := range fr.Subframes {
				d.pending = append(d.pending, sub.Samples[i]<<d.shift)
			}
		}
	}

	if len(d.pending) == 0 {
		return nil, io.EOF
	}

	take := want
	if take > len(d.pending) {
		take = len(d.pending)
	}
	out := d.pending[:take:take]
	d.pending = d.pending[take:]

	if len(d.pending) == 0 && take < want {
		return out, io.EOF
	}
	return out, nil
}

// Seek repositions decoding using the stream's native sample seek.
// FLAC seeks land on a frame boundary at or before the target, so the
// remainder is skipped by decoding.
func (d *FLACDecoder) Seek(offset time.Duration) error {
	target := framesAt(offset, d.format.SampleRate)
	pos, err := d.stream.Seek(uint64(target))
	if err != nil {
		return &Error{Encoding: "flac", Err: err}
	}
	d.pending = nil
	if int(pos) < target {
		return discardFrames(d, target-int(pos))
	}
	return nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error { return nil }
