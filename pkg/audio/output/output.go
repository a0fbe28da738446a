// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import "github.com/Chorus-Player/chorus-go/pkg/audio"

// Output represents an audio output device
type Output interface {
	// Open initializes the output device for the given format
	Open(format audio.Format) error

	// Write outputs audio samples (blocks until the device accepts them)
	Write(samples []int32) error

	// Pause suspends playback without discarding buffered audio
	Pause()

	// Resume continues playback after Pause
	Resume()

	// Reset discards buffered audio and unblocks any pending Write.
	// Used when playback jumps to a new position.
	Reset() error

	// SetVolume sets the playback gain (0.0 to 1.0, clamped)
	SetVolume(volume float64)

	// Volume returns the current playback gain
	Volume() float64

	// Close releases output resources
	Close() error
}

// clampVolume limits gain to the valid 0.0 to 1.0 range
func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}

// applyVolume scales samples by the gain with clipping protection
func applyVolume(samples []int32, volume float64) []int32 {
	if volume == 1.0 {
		return samples
	}

	result := make([]int32, len(samples))
	for i, sample := range samples {
		scaled := int64(float64(sample) * volume)

		// Clamp to 24-bit range to prevent overflow
		if scaled > audio.Max24Bit {
			scaled = audio.Max24Bit
		} else if scaled < audio.Min24Bit {
			scaled = audio.Min24Bit
		}

		result[i] = int32(scaled)
	}

	return result
}
