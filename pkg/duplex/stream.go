// ABOUTME: Stream data model and control API
// ABOUTME: Start/stop/position/latency/volume operations callable from a control goroutine
package duplex

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SampleFormat is the application-facing sample format tag.
type SampleFormat int

const (
	// SampleS16LE is 16-bit signed little-endian linear PCM.
	SampleS16LE SampleFormat = iota
	// SampleS16BE is 16-bit signed big-endian linear PCM.
	SampleS16BE
	// SampleFloat32NE is 32-bit native-endian floating point in [-1.0, 1.0).
	// It is carried over the wire as 32-bit fixed-point and converted at the
	// device boundary.
	SampleFloat32NE
)

// StreamPrefs carries optional stream behaviors requested by the application.
type StreamPrefs uint32

// PrefLoopback requests loopback capture. The engine does not support it and
// rejects the stream with ErrNotSupported rather than approximating.
const PrefLoopback StreamPrefs = 1 << 0

// StreamParams describes the requested format for one stream direction.
type StreamParams struct {
	Format   SampleFormat
	Rate     int
	Channels int
	Prefs    StreamPrefs
}

// State is the stream lifecycle state reported to the application.
type State int

const (
	StateStarted State = iota
	StateStopped
	StateDrained
	StateError
)

func (s State) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	case StateDrained:
		return "drained"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DataCallback is invoked synchronously from the I/O goroutine once per
// block. input holds the most recent captured block (nil if the stream has
// no record direction); output is to be filled with up to nframes frames
// (nil if the stream has no playback direction). It returns the number of
// frames actually produced; fewer than nframes signals drain (playback) or
// end of capture (record only). A non-nil error aborts the stream.
type DataCallback func(s *Stream, user any, input, output []byte, nframes int) (int, error)

// StateCallback is invoked with StateStarted before the first block and
// exactly once with the terminal state when the I/O loop exits.
type StateCallback func(s *Stream, user any, state State)

// EndpointConfig names the device and parameters for one direction.
// An empty Device means DefaultDevice.
type EndpointConfig struct {
	Device string
	Params StreamParams
}

// StreamConfig configures a new stream. At least one of Input and Output
// must be set; both makes the stream full duplex.
type StreamConfig struct {
	// Name identifies the stream in logs. Generated when empty.
	Name string

	Input  *EndpointConfig
	Output *EndpointConfig

	Data  DataCallback
	State StateCallback

	// UserData is handed back opaquely on every callback.
	UserData any
}

// streamInfo is the negotiated format for one direction. The frame size
// derived from it is fixed for the stream's lifetime.
type streamInfo struct {
	channels  int
	rate      int
	format    FormatCode
	precision int // bits per sample
}

// endpoint is one direction of a stream. A nil dev means the direction is
// inactive.
type endpoint struct {
	name      string
	dev       Device
	buf       []byte
	info      streamInfo
	frameSize int
	floating  bool
}

func (e *endpoint) active() bool {
	return e.dev != nil
}

// Stream is a duplex audio stream. Control methods may be called from any
// goroutine; the data and state callbacks run on the stream's I/O goroutine.
type Stream struct {
	ctx      *Context
	name     string
	userData any

	play   endpoint
	record endpoint

	dataCB  DataCallback
	stateCB StateCallback

	mu            sync.Mutex // protects running, volume, framesWritten
	running       bool
	volume        float32
	framesWritten uint64

	blockFrames int
	done        chan struct{} // closed when the I/O goroutine exits
}

// NewStream negotiates device parameters for the requested directions,
// allocates block buffers and returns a stream ready to Start. On failure
// every partially acquired device handle is released.
func (c *Context) NewStream(cfg StreamConfig) (*Stream, error) {
	if cfg.Data == nil || cfg.State == nil {
		return nil, errors.New("duplex: data and state callbacks are required")
	}
	if cfg.Input == nil && cfg.Output == nil {
		return nil, errors.New("duplex: stream needs at least one direction")
	}

	name := cfg.Name
	if name == "" {
		name = "stream-" + uuid.NewString()[:8]
	}

	s := &Stream{
		ctx:         c,
		name:        name,
		userData:    cfg.UserData,
		dataCB:      cfg.Data,
		stateCB:     cfg.State,
		volume:      1.0,
		blockFrames: defaultBlockFrames,
	}

	if cfg.Input != nil {
		if err := s.negotiate(&s.record, cfg.Input, AccessRead); err != nil {
			s.release()
			return nil, err
		}
	}
	if cfg.Output != nil {
		if err := s.negotiate(&s.play, cfg.Output, AccessWrite); err != nil {
			s.release()
			return nil, err
		}
	}

	s.deriveBlockFrames()

	if s.play.active() {
		s.play.buf = make([]byte, s.blockFrames*s.play.frameSize)
	}
	if s.record.active() {
		s.record.buf = make([]byte, s.blockFrames*s.record.frameSize)
	}
	return s, nil
}

// Name returns the stream's log identifier.
func (s *Stream) Name() string {
	return s.name
}

// BlockFrames returns the number of frames exchanged per I/O loop iteration.
func (s *Stream) BlockFrames() int {
	return s.blockFrames
}

// Start spawns the I/O goroutine. Starting an already-running stream is an
// error and leaves it running.
func (s *Stream) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("duplex: stream already started")
	}
	s.running = true
	s.done = make(chan struct{})
	s.mu.Unlock()
	go s.ioLoop()
	return nil
}

// Stop clears the running flag and blocks until the I/O goroutine exits.
// Stopping a stream that is not running is a no-op; Stop is idempotent.
// An in-flight blocking device call is not interrupted: the loop observes
// the flag at the next iteration boundary.
func (s *Stream) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	done := s.done
	s.mu.Unlock()
	<-done
}

// Close stops the stream if needed, then releases device handles and
// buffers. The stream must not be used afterwards.
func (s *Stream) Close() error {
	s.Stop()
	s.release()
	return nil
}

func (s *Stream) release() {
	if s.play.dev != nil {
		_ = s.play.dev.Close()
		s.play.dev = nil
	}
	if s.record.dev != nil {
		_ = s.record.dev.Close()
		s.record.dev = nil
	}
	s.play.buf = nil
	s.record.buf = nil
}

// Position returns the cumulative number of frames written to the playback
// device. It is monotonically non-decreasing for the stream's lifetime.
func (s *Stream) Position() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.framesWritten
}

// Latency reports how many frames are queued in the playback device but not
// yet played. It fails on streams without a playback direction.
func (s *Stream) Latency() (int, error) {
	if !s.play.active() {
		return 0, fmt.Errorf("%w: latency query on stream without playback", ErrNotSupported)
	}
	pending, err := s.play.dev.PendingBytes()
	if err != nil {
		return 0, fmt.Errorf("duplex: pending output query: %w", err)
	}
	return pending / s.play.frameSize, nil
}

// SetVolume sets the playback volume, clamped to [0.0, 1.0]. It takes effect
// on the next converted block.
func (s *Stream) SetVolume(volume float32) {
	if volume < 0.0 {
		volume = 0.0
	} else if volume > 1.0 {
		volume = 1.0
	}
	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
}

// StreamDevice reports the device names resolved at negotiation time, one
// per active direction. Inactive directions are empty.
type StreamDevice struct {
	InputName  string
	OutputName string
}

// CurrentDevice reports the (possibly default) device names this stream was
// negotiated against.
func (s *Stream) CurrentDevice() StreamDevice {
	var d StreamDevice
	if s.record.active() {
		d.InputName = s.record.name
	}
	if s.play.active() {
		d.OutputName = s.play.name
	}
	return d
}
