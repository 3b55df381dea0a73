package library

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// xingFrame builds a minimal MPEG1 Layer III stereo frame at 44.1 kHz
// carrying a Xing header with the given frame count.
func xingFrame(frames uint32) []byte {
	buf := make([]byte, 64)
	buf[0], buf[1], buf[2], buf[3] = 0xFF, 0xFB, 0x90, 0x00
	copy(buf[36:], "Xing")
	binary.BigEndian.PutUint32(buf[40:], 0x1)
	binary.BigEndian.PutUint32(buf[44:], frames)
	return buf
}

func TestProbeDurationXing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vbr.mp3")
	// 1225 frames of 1152 samples at 44100 Hz is exactly 32 seconds
	if err := os.WriteFile(path, xingFrame(1225), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	d, err := ProbeDuration(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d != 32*time.Second {
		t.Errorf("Expected 32s, got %v", d)
	}
}

func TestProbeDurationCBR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbr.mp3")
	// 160000 bytes at 128 kbps is exactly 10 seconds
	data := make([]byte, 160000)
	data[0], data[1], data[2], data[3] = 0xFF, 0xFB, 0x90, 0x00
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	d, err := ProbeDuration(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d != 10*time.Second {
		t.Errorf("Expected 10s, got %v", d)
	}
}

func TestProbeDurationSkipsID3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.mp3")

	data := make([]byte, 0, 330)
	data = append(data, 'I', 'D', '3', 0x03, 0x00, 0x00)
	data = append(data, 0x00, 0x00, 0x02, 0x00) // synchsafe size 256
	data = append(data, make([]byte, 256)...)
	data = append(data, xingFrame(1225)...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	d, err := ProbeDuration(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d != 32*time.Second {
		t.Errorf("Expected 32s, got %v", d)
	}
}

func TestProbeDurationNoFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silence.mp3")
	if err := os.WriteFile(path, make([]byte, 100), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := ProbeDuration(path)
	if err == nil {
		t.Fatal("Expected an error for a file without MPEG frames")
	}

	var trackErr *TrackError
	if !errors.As(err, &trackErr) {
		t.Errorf("Expected TrackError, got %T", err)
	}
}
