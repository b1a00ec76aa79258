// ABOUTME: Sentinel errors for the duplex stream engine
// ABOUTME: Lets callers distinguish unsupported requests from unavailable devices
package duplex

import "errors"

var (
	// ErrNotSupported is returned for requests the engine refuses to
	// approximate, such as loopback capture or latency queries on a
	// record-only stream.
	ErrNotSupported = errors.New("duplex: not supported")

	// ErrInvalidFormat is returned when a stream requests a sample format
	// the engine does not recognize.
	ErrInvalidFormat = errors.New("duplex: invalid sample format")

	// ErrDeviceUnavailable is returned when the requested device node does
	// not exist or refuses to open. It wraps the underlying OS error so
	// callers can tell "no such device" apart from bad parameters.
	ErrDeviceUnavailable = errors.New("duplex: device unavailable")
)
