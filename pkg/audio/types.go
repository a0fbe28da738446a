// ABOUTME: Audio type definitions
// ABOUTME: Defines formats, decoded buffers, track metadata and sample conversions
package audio

import "time"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer represents one fully decoded track.
// The transport owns it after a successful load and replaces it wholesale
// on the next load; it is never mutated in place.
type Buffer struct {
	Samples []int32 // Interleaved PCM (int32 to support both 16-bit and 24-bit)
	Format  Format
}

// Frames returns the number of sample frames in the buffer
func (b *Buffer) Frames() int {
	if b == nil || b.Format.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the playable length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.Format.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}

// Metadata describes one decoded track. Produced once per load, read-only afterward.
type Metadata struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
	Encoding   string            // "wav", "mp3", "flac", "opus", "pcm"
	Tags       map[string]string // Free-form tag mapping (TITLE, ARTIST, ...)
	CoverPath  string            // Path to extracted embedded cover art, if any
}

// Tag returns the named tag or an empty string
func (m Metadata) Tag(name string) string {
	if m.Tags == nil {
		return ""
	}
	return m.Tags[name]
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
