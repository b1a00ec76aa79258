// ABOUTME: Entry point for the capture demo
// ABOUTME: Records from an OSS device to a WAV file for a fixed duration
//go:build linux || freebsd || netbsd || openbsd || dragonfly

package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Resonate-Protocol/duplex-go/pkg/duplex"
	"github.com/Resonate-Protocol/duplex-go/pkg/oss"
)

var (
	deviceNode = flag.String("device", duplex.DefaultDevice, "Input device node")
	rate       = flag.Int("rate", 48000, "Sample rate in Hz")
	channels   = flag.Int("channels", 2, "Channel count")
	duration   = flag.Duration("duration", 5*time.Second, "Recording duration")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: duplex-rec [flags] <out.wav>")
	}

	ctx, err := duplex.NewContext("duplex-rec", oss.Open)
	if err != nil {
		log.Fatalf("error creating context: %v", err)
	}

	ch := *channels

	// Samples are appended from the I/O goroutine and only read back after
	// Stop has joined it.
	var samples []int
	stream, err := ctx.NewStream(duplex.StreamConfig{
		Name: "rec",
		Input: &duplex.EndpointConfig{
			Device: *deviceNode,
			Params: duplex.StreamParams{
				Format:   duplex.SampleS16LE,
				Rate:     *rate,
				Channels: ch,
			},
		},
		Data: func(s *duplex.Stream, user any, input, output []byte, nframes int) (int, error) {
			for i := 0; i < nframes*ch; i++ {
				samples = append(samples, int(int16(binary.LittleEndian.Uint16(input[i*2:]))))
			}
			return nframes, nil
		},
		State: func(s *duplex.Stream, user any, state duplex.State) {
			log.Printf("stream %s: %s", s.Name(), state)
		},
	})
	if err != nil {
		log.Fatalf("error creating stream: %v", err)
	}
	defer stream.Close()

	dev := stream.CurrentDevice()
	log.Printf("recording %v from %s (%d Hz, %d channels)", *duration, dev.InputName, *rate, ch)

	if err := stream.Start(); err != nil {
		log.Fatalf("error starting stream: %v", err)
	}
	time.Sleep(*duration)
	stream.Stop()

	f, err := os.Create(flag.Arg(0))
	if err != nil {
		log.Fatalf("error creating output: %v", err)
	}
	defer func() { _ = f.Close() }()

	enc := wav.NewEncoder(f, *rate, 16, ch, 1)
	buf := &audio.IntBuffer{
		Data:   samples,
		Format: &audio.Format{NumChannels: ch, SampleRate: *rate},
	}
	if err := enc.Write(buf); err != nil {
		log.Fatalf("error writing WAV: %v", err)
	}
	if err := enc.Close(); err != nil {
		log.Fatalf("error finalizing WAV: %v", err)
	}
	log.Printf("wrote %d frames to %s", len(samples)/ch, flag.Arg(0))
}
