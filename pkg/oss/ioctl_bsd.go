// ABOUTME: ioctl request encoding, BSD flavor
// ABOUTME: BSDs use IOC_OUT (bit 30) for parameters copied out of the kernel
//go:build freebsd || netbsd || openbsd || dragonfly

package oss

const (
	iocRead      uintptr = 0x40000000
	iocReadWrite uintptr = 0xc0000000
)
