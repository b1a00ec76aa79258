// ABOUTME: File-backed PCM sources for the demo binaries
// ABOUTME: Dispatches WAV/MP3/FLAC files to the matching decoder
package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source yields interleaved little-endian 16-bit PCM, the format the demo
// streams are negotiated with.
type Source interface {
	SampleRate() int
	Channels() int

	// ReadPCM fills dst with up to nframes frames of interleaved
	// little-endian 16-bit samples and returns the number of frames
	// produced. It returns io.EOF once the file is exhausted.
	ReadPCM(dst []byte, nframes int) (int, error)

	Close() error
}

// Open picks a decoder by file extension.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return NewWAV(path)
	case ".mp3":
		return NewMP3(path)
	case ".flac":
		return NewFLAC(path)
	default:
		return nil, fmt.Errorf("media: unsupported file type %q", filepath.Ext(path))
	}
}
