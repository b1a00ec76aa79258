// ABOUTME: Block-oriented device abstraction consumed by the stream engine
// ABOUTME: Defines Device, Opener, hardware format codes and queue geometry
package duplex

import (
	"encoding/binary"
	"math"
)

// AccessMode selects the direction a device handle is opened for.
type AccessMode int

const (
	// AccessRead opens a device for capture.
	AccessRead AccessMode = iota
	// AccessWrite opens a device for playback.
	AccessWrite
)

// FormatCode is a concrete hardware sample format code. The values mirror
// the OSS AFMT_* constants so the oss package can pass them straight through
// to the device.
type FormatCode int

const (
	FormatS16LE FormatCode = 0x00000010
	FormatS16BE FormatCode = 0x00000020
	FormatS32LE FormatCode = 0x00001000
	FormatS32BE FormatCode = 0x00002000
)

// formatS32NE returns the 32-bit fixed-point code matching the host byte
// order. Floating-point streams are carried over the wire in this format.
func formatS32NE() FormatCode {
	if hostLittleEndian() {
		return FormatS32LE
	}
	return FormatS32BE
}

func hostLittleEndian() bool {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], math.Float32bits(1))
	return binary.LittleEndian.Uint32(b[:]) == math.Float32bits(1)
}

// QueueInfo reports a device's queue geometry. Fragments times FragmentSize
// bounds how many bytes the device can buffer before blocking.
type QueueInfo struct {
	Fragments    int
	FragmentSize int
}

// Device is the block-oriented hardware handle a stream performs I/O
// against. Implementations may return short reads and writes; the engine
// retries until the requested byte count is exhausted. All methods are
// called from a single goroutine at a time.
type Device interface {
	// SetFormat pushes a hardware format code and returns the code the
	// device actually selected.
	SetFormat(code FormatCode) (FormatCode, error)

	// SetChannels pushes a channel count and returns the count the device
	// actually selected.
	SetChannels(n int) (int, error)

	// SetRate pushes a sample rate in Hz and returns the rate the device
	// actually selected.
	SetRate(hz int) (int, error)

	// QueueDepth reports the device queue geometry. Implementations that
	// cannot report it return an error; the engine falls back to a default
	// block size.
	QueueDepth() (QueueInfo, error)

	// PendingBytes reports how many bytes are queued for output but not yet
	// played.
	PendingBytes() (int, error)

	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Opener opens a device node in the given access mode. The oss package
// provides the real implementation; tests substitute fakes.
type Opener func(path string, mode AccessMode) (Device, error)
