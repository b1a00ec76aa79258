// ABOUTME: Device negotiation for one stream direction
// ABOUTME: Opens handles, pushes format/channels/rate, derives the block size
package duplex

import (
	"fmt"
	"log"
)

// defaultBlockFrames is used when a device cannot report its queue geometry.
const defaultBlockFrames = 32

// negotiate opens the endpoint's device and pushes the requested parameters,
// in the order format, channels, rate. Each push fails independently with a
// generic error; an open failure is reported as ErrDeviceUnavailable.
func (s *Stream) negotiate(ep *endpoint, cfg *EndpointConfig, mode AccessMode) error {
	if cfg.Params.Prefs&PrefLoopback != 0 {
		log.Printf("duplex: %s: loopback not supported", s.name)
		return fmt.Errorf("%w: loopback capture", ErrNotSupported)
	}

	info, err := translateFormat(cfg.Params)
	if err != nil {
		return err
	}

	name := cfg.Device
	if name == "" {
		name = DefaultDevice
	}
	name = s.ctx.DeviceID(name)

	dev, err := s.ctx.opener(name, mode)
	if err != nil {
		log.Printf("duplex: %s: device %q could not be opened: %v", s.name, name, err)
		return fmt.Errorf("%w: %q: %v", ErrDeviceUnavailable, name, err)
	}
	ep.name = name
	ep.dev = dev

	// The device may adjust what it was handed; the adjusted values are
	// what the stream runs with.
	if info.format, err = dev.SetFormat(info.format); err != nil {
		return fmt.Errorf("duplex: set format: %w", err)
	}
	if info.channels, err = dev.SetChannels(info.channels); err != nil {
		return fmt.Errorf("duplex: set channels: %w", err)
	}
	if info.rate, err = dev.SetRate(info.rate); err != nil {
		return fmt.Errorf("duplex: set rate: %w", err)
	}

	ep.info = info
	ep.frameSize = info.channels * info.precision / 8
	if ep.frameSize <= 0 {
		return fmt.Errorf("duplex: device %q negotiated unusable frame size", name)
	}
	ep.floating = cfg.Params.Format == SampleFloat32NE
	return nil
}

// translateFormat maps a sample-format tag to the concrete hardware format
// code and sample precision. Floating point is carried as 32-bit fixed-point
// and converted at the device boundary.
func translateFormat(p StreamParams) (streamInfo, error) {
	info := streamInfo{channels: p.Channels, rate: p.Rate}
	switch p.Format {
	case SampleS16LE:
		info.format = FormatS16LE
		info.precision = 16
	case SampleS16BE:
		info.format = FormatS16BE
		info.precision = 16
	case SampleFloat32NE:
		info.format = formatS32NE()
		info.precision = 32
	default:
		return streamInfo{}, fmt.Errorf("%w: %d", ErrInvalidFormat, p.Format)
	}
	return info, nil
}

// deriveBlockFrames sizes the processing block from the device queue depth:
// the minimum of the two capacities when both directions are active, the
// single active capacity otherwise. Using the smaller capacity bounds
// worst-case per-iteration blocking time without overrunning the shallower
// hardware queue.
func (s *Stream) deriveBlockFrames() {
	switch {
	case s.play.active() && s.record.active():
		s.blockFrames = min(queueCapacity(&s.play), queueCapacity(&s.record))
	case s.play.active():
		s.blockFrames = queueCapacity(&s.play)
	case s.record.active():
		s.blockFrames = queueCapacity(&s.record)
	}
}

// queueCapacity converts the endpoint's queue geometry to frames, falling
// back to defaultBlockFrames when the query is unsupported or reports zero.
func queueCapacity(ep *endpoint) int {
	qi, err := ep.dev.QueueDepth()
	if err != nil {
		return defaultBlockFrames
	}
	frames := qi.Fragments * qi.FragmentSize / ep.frameSize
	if frames <= 0 {
		return defaultBlockFrames
	}
	return frames
}
