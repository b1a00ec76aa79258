// ABOUTME: MP3 file source
// ABOUTME: Decodes MP3 via go-mp3; output is always stereo 16-bit LE
package media

import (
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// mp3 output is interleaved little-endian 16-bit stereo.
const mp3Channels = 2
const mp3FrameBytes = mp3Channels * 2

// MP3Source reads PCM from an MP3 file.
type MP3Source struct {
	file *os.File
	dec  *mp3.Decoder
}

// NewMP3 opens an MP3 file and prepares a decoder.
func NewMP3(path string) (*MP3Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: open MP3: %w", err)
	}
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("media: decode MP3: %w", err)
	}
	return &MP3Source{file: f, dec: dec}, nil
}

func (s *MP3Source) SampleRate() int { return s.dec.SampleRate() }
func (s *MP3Source) Channels() int   { return mp3Channels }

func (s *MP3Source) ReadPCM(dst []byte, nframes int) (int, error) {
	n, err := io.ReadFull(s.dec, dst[:nframes*mp3FrameBytes])
	frames := n / mp3FrameBytes
	if frames > 0 {
		return frames, nil
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return 0, err
}

func (s *MP3Source) Close() error {
	return s.file.Close()
}
