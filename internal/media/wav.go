// ABOUTME: WAV file source
// ABOUTME: Decodes RIFF/WAV via go-audio to 16-bit interleaved PCM
package media

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVSource reads PCM from a WAV file.
type WAVSource struct {
	file     *os.File
	dec      *wav.Decoder
	channels int
	rate     int
	bitDepth int
	scratch  []int
}

// NewWAV opens a WAV file and reads its header.
func NewWAV(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: open WAV: %w", err)
	}
	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("media: %s is not a valid WAV file", path)
	}
	return &WAVSource{
		file:     f,
		dec:      dec,
		channels: int(dec.NumChans),
		rate:     int(dec.SampleRate),
		bitDepth: int(dec.BitDepth),
	}, nil
}

func (s *WAVSource) SampleRate() int { return s.rate }
func (s *WAVSource) Channels() int   { return s.channels }

func (s *WAVSource) ReadPCM(dst []byte, nframes int) (int, error) {
	want := nframes * s.channels
	if cap(s.scratch) < want {
		s.scratch = make([]int, want)
	}
	buf := &audio.IntBuffer{
		Data: s.scratch[:want],
		Format: &audio.Format{
			NumChannels: s.channels,
			SampleRate:  s.rate,
		},
	}
	n, err := s.dec.PCMBuffer(buf)
	if err != nil {
		return 0, fmt.Errorf("media: WAV decode: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	n -= n % s.channels
	for i := 0; i < n; i++ {
		v := buf.Data[i]
		switch {
		case s.bitDepth > 16:
			v >>= uint(s.bitDepth - 16)
		case s.bitDepth < 16:
			v <<= uint(16 - s.bitDepth)
		}
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(int16(v)))
	}
	return n / s.channels, nil
}

func (s *WAVSource) Close() error {
	return s.file.Close()
}
