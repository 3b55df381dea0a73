package library

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"time"
)

// MPEG audio constants for Layer III frames.
var (
	bitratesV1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	bitratesV2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}

	samplerates = map[byte][3]int{
		3: {44100, 48000, 32000}, // MPEG1
		2: {22050, 24000, 16000}, // MPEG2
		0: {11025, 12000, 8000},  // MPEG2.5
	}
)

// ProbeDuration estimates an MP3 file's play time without decoding it. VBR
// files are read from their Xing/Info or VBRI header; CBR files are
// estimated from the first frame's bitrate and the audio stream size.
func ProbeDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &TrackError{Path: path, Message: "failed to open file", Original: err}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return 0, &TrackError{Path: path, Message: "failed to stat file", Original: err}
	}

	audioStart, err := skipID3(f)
	if err != nil {
		return 0, &TrackError{Path: path, Message: "failed to read ID3 header", Original: err}
	}

	if _, err := f.Seek(audioStart, io.SeekStart); err != nil {
		return 0, &TrackError{Path: path, Message: "failed to seek audio stream", Original: err}
	}

	// Scan a bounded window for the first valid frame header
	window := make([]byte, 256*1024)
	n, err := io.ReadFull(f, window)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, &TrackError{Path: path, Message: "failed to read audio stream", Original: err}
	}
	window = window[:n]

	for i := 0; i+4 <= len(window); i++ {
		if window[i] != 0xFF || window[i+1]&0xE0 != 0xE0 {
			continue
		}

		version := (window[i+1] >> 3) & 0x3
		layer := (window[i+1] >> 1) & 0x3
		bitrateIdx := window[i+2] >> 4
		samplerateIdx := (window[i+2] >> 2) & 0x3
		channelMode := window[i+3] >> 6

		// Layer III only; reserved version and free/bad bitrates rejected
		if version == 1 || layer != 1 || bitrateIdx == 0 || bitrateIdx == 15 || samplerateIdx == 3 {
			continue
		}

		rates, ok := samplerates[version]
		if !ok {
			continue
		}
		samplerate := rates[samplerateIdx]

		samplesPerFrame := 1152
		bitrate := bitratesV1[bitrateIdx]
		if version != 3 {
			samplesPerFrame = 576
			bitrate = bitratesV2[bitrateIdx]
		}

		frame := window[i:]
		if d, ok := vbrDuration(frame, version, channelMode, samplesPerFrame, samplerate); ok {
			return d, nil
		}

		// CBR estimate over the remaining stream
		audioBytes := info.Size() - audioStart - int64(i)
		if audioBytes <= 0 || bitrate == 0 {
			break
		}
		seconds := float64(audioBytes*8) / float64(bitrate*1000)
		return time.Duration(seconds * float64(time.Second)), nil
	}

	return 0, &TrackError{Path: path, Message: "no MPEG frame found"}
}

// skipID3 returns the offset of the audio stream past any ID3v2 tag.
func skipID3(f *os.File) (int64, error) {
	header := make([]byte, 10)
	n, err := io.ReadFull(f, header)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return int64(n), nil
		}
		return 0, err
	}
	if !bytes.Equal(header[:3], []byte("ID3")) {
		return 0, nil
	}

	size := synchsafeSize(header[6:10])
	offset := int64(10 + size)
	if header[5]&0x10 != 0 {
		offset += 10 // footer present
	}
	return offset, nil
}

// synchsafeSize decodes an ID3v2 synchsafe 28-bit size.
func synchsafeSize(b []byte) int {
	return int(b[0]&0x7F)<<21 | int(b[1]&0x7F)<<14 | int(b[2]&0x7F)<<7 | int(b[3]&0x7F)
}

// vbrDuration reads the frame count from a Xing/Info or VBRI header when one
// is present in the first frame.
func vbrDuration(frame []byte, version, channelMode byte, samplesPerFrame, samplerate int) (time.Duration, bool) {
	// Xing/Info sits after the side information block
	sideInfo := 32
	if version != 3 {
		sideInfo = 17
	}
	if channelMode == 3 { // mono
		sideInfo = 17
		if version != 3 {
			sideInfo = 9
		}
	}

	xingOff := 4 + sideInfo
	if len(frame) >= xingOff+16 {
		magic := frame[xingOff : xingOff+4]
		if bytes.Equal(magic, []byte("Xing")) || bytes.Equal(magic, []byte("Info")) {
			flags := binary.BigEndian.Uint32(frame[xingOff+4 : xingOff+8])
			if flags&0x1 != 0 {
				frames := binary.BigEndian.Uint32(frame[xingOff+8 : xingOff+12])
				if frames > 0 && samplerate > 0 {
					seconds := float64(frames) * float64(samplesPerFrame) / float64(samplerate)
					return time.Duration(seconds * float64(time.Second)), true
				}
			}
		}
	}

	// VBRI sits at a fixed offset
	vbriOff := 4 + 32
	if len(frame) >= vbriOff+26 {
		if bytes.Equal(frame[vbriOff:vbriOff+4], []byte("VBRI")) {
			frames := binary.BigEndian.Uint32(frame[vbriOff+14 : vbriOff+18])
			if frames > 0 && samplerate > 0 {
				seconds := float64(frames) * float64(samplesPerFrame) / float64(samplerate)
				return time.Duration(seconds * float64(time.Second)), true
			}
		}
	}

	return 0, false
}
