// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface with oto and null implementations
// Package output provides audio playback sinks.
//
// The oto backend plays through the OS audio device; the null backend
// consumes samples without a device and is used for tests and headless
// operation.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(format)
//	err = out.Write(samples)
package output
