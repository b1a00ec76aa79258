// ABOUTME: Package documentation for the OSS device layer
// ABOUTME: Real /dev/dsp implementation of the duplex.Device interface
// Package oss implements the duplex engine's device interface on top of
// Open Sound System device nodes, driving them with SNDCTL_DSP ioctls via
// golang.org/x/sys/unix.
//
// Example:
//
//	ctx, err := duplex.NewContext("myapp", oss.Open)
//
// The package builds on platforms that expose OSS-style /dev/dsp nodes.
package oss
