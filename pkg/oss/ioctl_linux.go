// ABOUTME: ioctl request encoding, Linux flavor
// ABOUTME: Linux puts the read direction in bit 31
package oss

const (
	iocRead      uintptr = 0x80000000
	iocReadWrite uintptr = 0xc0000000
)
