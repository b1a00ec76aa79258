// ABOUTME: In-memory fake of the Device interface for engine tests
// ABOUTME: Scripts negotiation results, queue geometry and partial I/O
package duplex

import (
	"fmt"
	"sync"
)

// fakeDevice stands in for an OSS device node. Zero value behaves as an
// agreeable device that accepts whatever it is handed.
type fakeDevice struct {
	mu sync.Mutex

	path string
	mode AccessMode

	// ops traces negotiation calls in order.
	ops []string

	formatErr   error
	channelsErr error
	rateErr     error
	// adjustChannels, when non-zero, is returned instead of the requested
	// channel count.
	adjustChannels int

	queue    QueueInfo
	queueErr error

	pending    int
	pendingErr error

	// maxWrite/maxRead cap bytes accepted per call to exercise the partial
	// I/O retry loop. Zero means unlimited.
	maxWrite int
	maxRead  int

	writeErr error
	readErr  error

	// readSrc is handed out by Read; zeros once exhausted.
	readSrc []byte

	written    []byte
	writeCalls int
	readCalls  int

	// blockWrites, when non-nil, stalls every Write until closed.
	blockWrites  chan struct{}
	writeEntered chan struct{} // signaled once when the first Write begins

	closed bool
}

func (d *fakeDevice) SetFormat(code FormatCode) (FormatCode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, fmt.Sprintf("format=%#x", int(code)))
	if d.formatErr != nil {
		return 0, d.formatErr
	}
	return code, nil
}

func (d *fakeDevice) SetChannels(n int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, fmt.Sprintf("channels=%d", n))
	if d.channelsErr != nil {
		return 0, d.channelsErr
	}
	if d.adjustChannels != 0 {
		return d.adjustChannels, nil
	}
	return n, nil
}

func (d *fakeDevice) SetRate(hz int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, fmt.Sprintf("rate=%d", hz))
	if d.rateErr != nil {
		return 0, d.rateErr
	}
	return hz, nil
}

func (d *fakeDevice) QueueDepth() (QueueInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.queueErr != nil {
		return QueueInfo{}, d.queueErr
	}
	return d.queue, nil
}

func (d *fakeDevice) PendingBytes() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pendingErr != nil {
		return 0, d.pendingErr
	}
	return d.pending, nil
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readCalls++
	if d.readErr != nil {
		return 0, d.readErr
	}
	n := len(p)
	if d.maxRead > 0 && n > d.maxRead {
		n = d.maxRead
	}
	copied := copy(p[:n], d.readSrc)
	d.readSrc = d.readSrc[copied:]
	for i := copied; i < n; i++ {
		p[i] = 0
	}
	return n, nil
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	entered := d.writeEntered
	d.writeEntered = nil
	block := d.blockWrites
	d.mu.Unlock()
	if entered != nil {
		close(entered)
	}
	if block != nil {
		<-block
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeCalls++
	if d.writeErr != nil {
		return 0, d.writeErr
	}
	n := len(p)
	if d.maxWrite > 0 && n > d.maxWrite {
		n = d.maxWrite
	}
	d.written = append(d.written, p[:n]...)
	return n, nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDevice) writtenBytes() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.written...)
}

func (d *fakeDevice) opTrace() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ops...)
}

// openerFor satisfies Opener with a single fake regardless of direction.
func openerFor(d *fakeDevice) Opener {
	return func(path string, mode AccessMode) (Device, error) {
		d.mu.Lock()
		d.path = path
		d.mode = mode
		d.mu.Unlock()
		return d, nil
	}
}

// openerByMode routes capture opens to in and playback opens to out.
func openerByMode(in, out *fakeDevice) Opener {
	return func(path string, mode AccessMode) (Device, error) {
		d := out
		if mode == AccessRead {
			d = in
		}
		d.mu.Lock()
		d.path = path
		d.mode = mode
		d.mu.Unlock()
		return d, nil
	}
}
