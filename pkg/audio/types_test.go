// ABOUTME: Tests for audio types
// ABOUTME: Tests buffer duration math and sample conversion functions
package audio

import (
	"testing"
	"time"
)

func TestBufferFramesAndDuration(t *testing.T) {
	tests := []struct {
		name     string
		buf      *Buffer
		frames   int
		duration time.Duration
	}{
		{"nil buffer", nil, 0, 0},
		{"empty", &Buffer{Format: Format{SampleRate: 44100, Channels: 2}}, 0, 0},
		{
			"one second stereo",
			&Buffer{
				Samples: make([]int32, 44100*2),
				Format:  Format{SampleRate: 44100, Channels: 2},
			},
			44100,
			time.Second,
		},
		{
			"half second mono",
			&Buffer{
				Samples: make([]int32, 4000),
				Format:  Format{SampleRate: 8000, Channels: 1},
			},
			4000,
			500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.buf.Frames(); got != tt.frames {
				t.Errorf("Frames: expected %d, got %d", tt.frames, got)
			}
			if got := tt.buf.Duration(); got != tt.duration {
				t.Errorf("Duration: expected %v, got %v", tt.duration, got)
			}
		})
	}
}

func TestMetadataTag(t *testing.T) {
	m := Metadata{Tags: map[string]string{"TITLE": "Song"}}
	if m.Tag("TITLE") != "Song" {
		t.Errorf("expected Song, got %q", m.Tag("TITLE"))
	}
	if m.Tag("ARTIST") != "" {
		t.Errorf("expected empty tag, got %q", m.Tag("ARTIST"))
	}

	var empty Metadata
	if empty.Tag("TITLE") != "" {
		t.Error("expected empty tag on zero metadata")
	}
}

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906},
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFrom24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected int32
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"positive", [3]byte{0x56, 0x34, 0x12}, 0x123456},
		{"negative", [3]byte{0x00, 0xFF, 0xFF}, -256},
		{"max positive", [3]byte{0xFF, 0xFF, 0x7F}, Max24Bit},
		{"max negative", [3]byte{0x00, 0x00, 0x80}, Min24Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTrip24Bit(t *testing.T) {
	samples := []int32{0, 100000, -100000, Max24Bit, Min24Bit}

	for _, original := range samples {
		bytes := SampleTo24Bit(original)
		result := SampleFrom24Bit(bytes)
		if result != original {
			t.Errorf("round-trip failed: %d -> %v -> %d", original, bytes, result)
		}
	}
}
