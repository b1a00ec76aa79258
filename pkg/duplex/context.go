// ABOUTME: Process-wide engine context owning the device opener
// ABOUTME: Provides backend queries and a device-identifier intern table
package duplex

import (
	"errors"
	"runtime"

	"github.com/Resonate-Protocol/duplex-go/internal/strset"
)

const (
	// DefaultDevice is used when a stream direction does not name a device.
	DefaultDevice = "/dev/dsp"

	// preferredRate is supported well by most hardware.
	preferredRate = 48000

	// minLatencyMS is the standard acceptable minimum.
	minLatencyMS = 40
)

// Context is the process-wide registry streams are created from. It owns the
// device opener and an intern table producing stable device identifiers.
type Context struct {
	name   string
	opener Opener
	devIDs *strset.Set
}

// NewContext creates a Context. The opener backs every stream created from
// this context; pass oss.Open for real hardware.
func NewContext(name string, opener Opener) (*Context, error) {
	if opener == nil {
		return nil, errors.New("duplex: nil device opener")
	}
	return &Context{
		name:   name,
		opener: opener,
		devIDs: strset.New(),
	}, nil
}

// BackendID identifies the device backend this engine drives.
func (c *Context) BackendID() string {
	return "oss"
}

// PreferredSampleRate returns the rate most likely to be accepted unmodified
// by the hardware.
func (c *Context) PreferredSampleRate() int {
	return preferredRate
}

// MaxChannelCount returns the largest channel count the platform's device
// layer supports.
func (c *Context) MaxChannelCount() int {
	switch runtime.GOOS {
	case "freebsd", "dragonfly":
		return 8
	case "solaris", "illumos":
		return 16
	default:
		return 2
	}
}

// MinLatency returns the smallest workable latency, in frames, for streams
// using the given parameters.
func (c *Context) MinLatency(params StreamParams) int {
	return minLatencyMS * params.Rate / 1000
}

// DeviceID interns a device name, returning a stable identifier for
// reporting. Equal names always map to the same string value.
func (c *Context) DeviceID(name string) string {
	return c.devIDs.Intern(name)
}
