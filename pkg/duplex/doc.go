// ABOUTME: Package documentation for the duplex stream engine
// ABOUTME: Describes the Context/Stream API and the device collaborator model
// Package duplex implements a real-time duplex (simultaneous record and
// playback) audio stream engine over a block-oriented device abstraction.
//
// A Context owns the device opener and a device-identifier intern table.
// Streams are created from a Context, negotiate format/channels/rate with the
// underlying device, and exchange fixed-size blocks of frames between an
// application callback and the device from a dedicated I/O goroutine.
//
// Example (playback only):
//
//	ctx, err := duplex.NewContext("myapp", oss.Open)
//	stream, err := ctx.NewStream(duplex.StreamConfig{
//	    Output: &duplex.EndpointConfig{
//	        Params: duplex.StreamParams{
//	            Format:   duplex.SampleS16LE,
//	            Rate:     48000,
//	            Channels: 2,
//	        },
//	    },
//	    Data:  fillFrames,
//	    State: onStateChange,
//	})
//	err = stream.Start()
//	// ... later
//	err = stream.Stop()
//	err = stream.Close()
//
// The device layer is pluggable: anything implementing Device can back a
// stream. See the oss package for the real /dev/dsp implementation, which is
// also where the hardware format codes used here come from.
package duplex
