// ABOUTME: Tests for container sniffing and whole-file decode
// ABOUTME: Uses hand-built RIFF/WAVE fixtures, no media assets required
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"
)

// buildWAV assembles a minimal 16-bit PCM RIFF/WAVE file in memory
func buildWAV(t *testing.T, sampleRate, channels int, samples []int16) []byte {
	t.Helper()

	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}
	n := data.Len()

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+n))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(n))
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func TestNewUnknownFormat(t *testing.T) {
	src := bytes.NewReader([]byte("this is definitely not audio data"))

	_, err := New(src)
	if err == nil {
		t.Fatal("expected error for unknown container")
	}

	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *decode.Error, got %T", err)
	}
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestNewTruncatedSource(t *testing.T) {
	src := bytes.NewReader([]byte("RIFF"))

	_, err := New(src)
	if err == nil {
		t.Fatal("expected error for truncated source")
	}

	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *decode.Error, got %T", err)
	}
}

func TestReadAllWAV(t *testing.T) {
	const rate = 8000
	samples := make([]int16, rate) // 1 second mono
	for i := range samples {
		samples[i] = int16(i % 100)
	}
	src := bytes.NewReader(buildWAV(t, rate, 1, samples))

	buf, meta, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if buf.Format.Codec != "wav" {
		t.Errorf("expected codec wav, got %s", buf.Format.Codec)
	}
	if buf.Format.SampleRate != rate {
		t.Errorf("expected rate %d, got %d", rate, buf.Format.SampleRate)
	}
	if buf.Frames() != rate {
		t.Errorf("expected %d frames, got %d", rate, buf.Frames())
	}
	if buf.Duration() != time.Second {
		t.Errorf("expected 1s duration, got %v", buf.Duration())
	}
	if meta.Encoding != "wav" {
		t.Errorf("expected encoding wav, got %s", meta.Encoding)
	}
	if meta.Duration != time.Second {
		t.Errorf("expected 1s metadata duration, got %v", meta.Duration)
	}

	// Samples survive the 16-bit to 24-bit conversion
	if buf.Samples[42] != int32(42)<<8 {
		t.Errorf("expected sample %d, got %d", int32(42)<<8, buf.Samples[42])
	}
}

func TestWAVSeek(t *testing.T) {
	const rate = 8000
	samples := make([]int16, rate*2) // 2 seconds mono, value = frame index
	for i := range samples {
		samples[i] = int16(i)
	}
	src := bytes.NewReader(buildWAV(t, rate, 1, samples))

	dec, err := New(src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer dec.Close()

	if err := dec.Seek(time.Second); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	chunk, err := dec.Next(4)
	if err != nil && err != io.EOF {
		t.Fatalf("Next failed: %v", err)
	}
	if len(chunk) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(chunk))
	}
	if chunk[0] != int32(int16(rate))<<8 {
		t.Errorf("expected first sample after seek to be frame %d, got %d", rate, chunk[0]>>8)
	}
}

func TestWAVSeekPastEndClamps(t *testing.T) {
	src := bytes.NewReader(buildWAV(t, 8000, 1, make([]int16, 8000)))

	dec, err := New(src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer dec.Close()

	if err := dec.Seek(time.Minute); err != nil {
		t.Fatalf("seek past end should clamp, got %v", err)
	}
	if _, err := dec.Next(16); err != io.EOF {
		t.Errorf("expected io.EOF after seek past end, got %v", err)
	}
}

// seekOnlyReader hides the underlying ReadAt so the decoder must cope
// with sources that support only sequential access.
type seekOnlyReader struct {
	r *bytes.Reader
}

func (s *seekOnlyReader) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *seekOnlyReader) Seek(offset int64, whence int) (int64, error) {
	return s.r.Seek(offset, whence)
}

func TestWAVSourceWithoutReadAt(t *testing.T) {
	const rate = 8000
	samples := make([]int16, rate)
	for i := range samples {
		samples[i] = int16(i)
	}
	src := &seekOnlyReader{r: bytes.NewReader(buildWAV(t, rate, 1, samples))}

	buf, meta, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if buf.Frames() != rate {
		t.Errorf("expected %d frames, got %d", rate, buf.Frames())
	}
	if meta.Duration != time.Second {
		t.Errorf("expected 1s duration, got %v", meta.Duration)
	}

	// Seek rebuilds the reader through the same adaptation
	src2 := &seekOnlyReader{r: bytes.NewReader(buildWAV(t, rate, 1, samples))}
	dec, err := New(src2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer dec.Close()

	if err := dec.Seek(500 * time.Millisecond); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	chunk, err := dec.Next(1)
	if err != nil && err != io.EOF {
		t.Fatalf("Next failed: %v", err)
	}
	if chunk[0] != int32(int16(rate/2))<<8 {
		t.Errorf("expected frame %d after seek, got %d", rate/2, chunk[0]>>8)
	}
}

func TestStereoInterleaving(t *testing.T) {
	// Left channel 1000, right channel -1000
	samples := []int16{1000, -1000, 1000, -1000, 1000, -1000}
	src := bytes.NewReader(buildWAV(t, 8000, 2, samples))

	buf, _, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if buf.Format.Channels != 2 {
		t.Fatalf("expected 2 channels, got %d", buf.Format.Channels)
	}
	if buf.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", buf.Frames())
	}
	if buf.Samples[0] != int32(1000)<<8 || buf.Samples[1] != int32(-1000)<<8 {
		t.Errorf("interleaving broken: got %d, %d", buf.Samples[0], buf.Samples[1])
	}
}

func TestMP3SniffByID3(t *testing.T) {
	// An ID3 header routes to the MP3 decoder, which then rejects the
	// garbage body with a typed error rather than a panic.
	junk := append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0xAA}, 64)...)

	_, err := New(bytes.NewReader(junk))
	if err == nil {
		t.Fatal("expected error for corrupt mp3")
	}
	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *decode.Error, got %T", err)
	}
	if derr.Encoding != "mp3" {
		t.Errorf("expected mp3 encoding in error, got %q", derr.Encoding)
	}
}

func TestFLACSniffCorrupt(t *testing.T) {
	junk := append([]byte("fLaC"), bytes.Repeat([]byte{0x00}, 16)...)

	_, err := New(bytes.NewReader(junk))
	if err == nil {
		t.Fatal("expected error for corrupt flac")
	}
	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *decode.Error, got %T", err)
	}
	if derr.Encoding != "flac" {
		t.Errorf("expected flac encoding in error, got %q", derr.Encoding)
	}
}
