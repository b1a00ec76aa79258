// ABOUTME: Entry point for the playback demo
// ABOUTME: Streams a WAV/MP3/FLAC file to an OSS device until drained
//go:build linux || freebsd || netbsd || openbsd || dragonfly

package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/Resonate-Protocol/duplex-go/internal/media"
	"github.com/Resonate-Protocol/duplex-go/pkg/duplex"
	"github.com/Resonate-Protocol/duplex-go/pkg/oss"
)

var (
	configPath = flag.String("config", "", "Optional config file (YAML)")
	deviceNode = flag.String("device", "", "Output device node (overrides config)")
	volume     = flag.Float64("volume", -1, "Playback volume 0.0-1.0 (overrides config)")
	logFile    = flag.String("log-file", "", "Log to this file instead of stderr")
)

func loadConfig() {
	viper.SetDefault("device", duplex.DefaultDevice)
	viper.SetDefault("volume", 1.0)

	if *configPath != "" {
		viper.SetConfigFile(*configPath)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("error reading config %s: %v", *configPath, err)
		}
	}

	// Flags win over the config file.
	if *deviceNode != "" {
		viper.Set("device", *deviceNode)
	}
	if *volume >= 0 {
		viper.Set("volume", *volume)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: duplex-play [flags] <file.wav|file.mp3|file.flac>")
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer func() { _ = f.Close() }()
		log.SetOutput(f)
	}

	loadConfig()

	src, err := media.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("error opening media: %v", err)
	}
	defer src.Close()

	ctx, err := duplex.NewContext("duplex-play", oss.Open)
	if err != nil {
		log.Fatalf("error creating context: %v", err)
	}

	done := make(chan duplex.State, 1)
	stream, err := ctx.NewStream(duplex.StreamConfig{
		Name: "play",
		Output: &duplex.EndpointConfig{
			Device: viper.GetString("device"),
			Params: duplex.StreamParams{
				Format:   duplex.SampleS16LE,
				Rate:     src.SampleRate(),
				Channels: src.Channels(),
			},
		},
		Data: func(s *duplex.Stream, user any, input, output []byte, nframes int) (int, error) {
			frames, err := src.ReadPCM(output, nframes)
			if err != nil && !errors.Is(err, io.EOF) {
				return 0, err
			}
			return frames, nil
		},
		State: func(s *duplex.Stream, user any, state duplex.State) {
			log.Printf("stream %s: %s", s.Name(), state)
			if state != duplex.StateStarted {
				select {
				case done <- state:
				default:
				}
			}
		},
	})
	if err != nil {
		log.Fatalf("error creating stream: %v", err)
	}
	defer stream.Close()

	dev := stream.CurrentDevice()
	log.Printf("playing %s on %s (%d Hz, %d channels, %d-frame blocks)",
		flag.Arg(0), dev.OutputName, src.SampleRate(), src.Channels(), stream.BlockFrames())

	stream.SetVolume(float32(viper.GetFloat64("volume")))
	if err := stream.Start(); err != nil {
		log.Fatalf("error starting stream: %v", err)
	}

	state := <-done
	stream.Stop()
	log.Printf("done: %d frames written, final state %s", stream.Position(), state)
	if state == duplex.StateError {
		os.Exit(1)
	}
}
