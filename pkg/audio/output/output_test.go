// ABOUTME: Tests for output volume scaling and the null backend
// ABOUTME: Device-backed outputs are exercised manually, not in CI
package output

import (
	"testing"

	"github.com/Chorus-Player/chorus-go/pkg/audio"
)

func TestClampVolume(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"below range", -0.5, 0},
		{"zero", 0, 0},
		{"mid", 0.5, 0.5},
		{"one", 1, 1},
		{"above range", 1.7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampVolume(tt.in); got != tt.expected {
				t.Errorf("clampVolume(%v) = %v, expected %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestApplyVolume(t *testing.T) {
	samples := []int32{1000, -1000, audio.Max24Bit, audio.Min24Bit}

	half := applyVolume(samples, 0.5)
	if half[0] != 500 || half[1] != -500 {
		t.Errorf("half volume: got %d, %d", half[0], half[1])
	}

	muted := applyVolume(samples, 0)
	for i, s := range muted {
		if s != 0 {
			t.Errorf("muted sample %d = %d, expected 0", i, s)
		}
	}

	// Unity gain returns samples untouched
	full := applyVolume(samples, 1.0)
	for i := range samples {
		if full[i] != samples[i] {
			t.Errorf("unity gain changed sample %d", i)
		}
	}
}

func TestNullOutput(t *testing.T) {
	out := NewNull()

	if err := out.Write([]int32{1, 2}); err == nil {
		t.Error("expected error writing before Open")
	}

	format := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}
	if err := out.Open(format); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := out.Write(make([]int32, 128)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out.Written() != 128 {
		t.Errorf("expected 128 samples written, got %d", out.Written())
	}

	out.Pause()
	if !out.Paused() {
		t.Error("expected paused after Pause")
	}
	out.Resume()
	if out.Paused() {
		t.Error("expected not paused after Resume")
	}

	out.SetVolume(2.0)
	if out.Volume() != 1.0 {
		t.Errorf("expected clamped volume 1.0, got %v", out.Volume())
	}

	if err := out.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if out.Resets() != 1 {
		t.Errorf("expected 1 reset, got %d", out.Resets())
	}

	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := out.Write([]int32{1}); err == nil {
		t.Error("expected error writing after Close")
	}
}
