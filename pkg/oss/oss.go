// ABOUTME: OSS device handle implementing duplex.Device
// ABOUTME: Opens /dev/dsp nodes and drives them with SNDCTL_DSP ioctls
//go:build linux || freebsd || netbsd || openbsd || dragonfly

package oss

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/Resonate-Protocol/duplex-go/pkg/duplex"
)

const (
	iocSizeShift  = 16
	iocGroupShift = 8
)

func ioR(group byte, nr, size uintptr) uintptr {
	return iocRead | size<<iocSizeShift | uintptr(group)<<iocGroupShift | nr
}

func ioRW(group byte, nr, size uintptr) uintptr {
	return iocReadWrite | size<<iocSizeShift | uintptr(group)<<iocGroupShift | nr
}

// audioBufInfo mirrors struct audio_buf_info from soundcard.h.
type audioBufInfo struct {
	Fragments  int32
	FragsTotal int32
	FragSize   int32
	Bytes      int32
}

var (
	reqSetFmt    = ioRW('P', 5, 4)                             // SNDCTL_DSP_SETFMT
	reqChannels  = ioRW('P', 6, 4)                             // SNDCTL_DSP_CHANNELS
	reqSpeed     = ioRW('P', 2, 4)                             // SNDCTL_DSP_SPEED
	reqGetOSpace = ioR('P', 12, unsafe.Sizeof(audioBufInfo{})) // SNDCTL_DSP_GETOSPACE
	reqGetISpace = ioR('P', 13, unsafe.Sizeof(audioBufInfo{})) // SNDCTL_DSP_GETISPACE
	reqGetODelay = ioR('P', 23, 4)                             // SNDCTL_DSP_GETODELAY
)

// device is an open OSS device node.
type device struct {
	fd   int
	path string
	mode duplex.AccessMode
}

// Open opens an OSS device node read-only for capture or write-only for
// playback. It satisfies duplex.Opener.
func Open(path string, mode duplex.AccessMode) (duplex.Device, error) {
	flags := unix.O_WRONLY
	if mode == duplex.AccessRead {
		flags = unix.O_RDONLY
	}
	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		return nil, fmt.Errorf("oss: open %s: %w", path, err)
	}
	return &device{fd: fd, path: path, mode: mode}, nil
}

func (d *device) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// ioctlInt performs an ioctl whose argument is a value-result int.
func (d *device) ioctlInt(req uintptr, val int) (int, error) {
	arg := int32(val)
	if err := d.ioctl(req, unsafe.Pointer(&arg)); err != nil {
		return 0, err
	}
	return int(arg), nil
}

func (d *device) SetFormat(code duplex.FormatCode) (duplex.FormatCode, error) {
	got, err := d.ioctlInt(reqSetFmt, int(code))
	if err != nil {
		return 0, fmt.Errorf("oss: %s: SNDCTL_DSP_SETFMT: %w", d.path, err)
	}
	return duplex.FormatCode(got), nil
}

func (d *device) SetChannels(n int) (int, error) {
	got, err := d.ioctlInt(reqChannels, n)
	if err != nil {
		return 0, fmt.Errorf("oss: %s: SNDCTL_DSP_CHANNELS: %w", d.path, err)
	}
	return got, nil
}

func (d *device) SetRate(hz int) (int, error) {
	got, err := d.ioctlInt(reqSpeed, hz)
	if err != nil {
		return 0, fmt.Errorf("oss: %s: SNDCTL_DSP_SPEED: %w", d.path, err)
	}
	return got, nil
}

// QueueDepth queries the output queue for playback handles and the input
// queue for capture handles.
func (d *device) QueueDepth() (duplex.QueueInfo, error) {
	req := reqGetOSpace
	if d.mode == duplex.AccessRead {
		req = reqGetISpace
	}
	var bi audioBufInfo
	if err := d.ioctl(req, unsafe.Pointer(&bi)); err != nil {
		return duplex.QueueInfo{}, fmt.Errorf("oss: %s: queue depth query: %w", d.path, err)
	}
	return duplex.QueueInfo{
		Fragments:    int(bi.FragsTotal),
		FragmentSize: int(bi.FragSize),
	}, nil
}

func (d *device) PendingBytes() (int, error) {
	n, err := d.ioctlInt(reqGetODelay, 0)
	if err != nil {
		return 0, fmt.Errorf("oss: %s: SNDCTL_DSP_GETODELAY: %w", d.path, err)
	}
	return n, nil
}

func (d *device) Read(p []byte) (int, error) {
	n, err := unix.Read(d.fd, p)
	if err != nil {
		return 0, fmt.Errorf("oss: %s: read: %w", d.path, err)
	}
	return n, nil
}

func (d *device) Write(p []byte) (int, error) {
	n, err := unix.Write(d.fd, p)
	if err != nil {
		return 0, fmt.Errorf("oss: %s: write: %w", d.path, err)
	}
	return n, nil
}

func (d *device) Close() error {
	return unix.Close(d.fd)
}
