// ABOUTME: Tests for the engine context
// ABOUTME: Backend queries and device-identifier interning
package duplex

import "testing"

func TestNewContextRequiresOpener(t *testing.T) {
	if _, err := NewContext("test", nil); err == nil {
		t.Error("nil opener must be rejected")
	}
}

func TestBackendQueries(t *testing.T) {
	ctx := testContext(t, openerFor(&fakeDevice{}))

	if ctx.BackendID() != "oss" {
		t.Errorf("backend id %q, want oss", ctx.BackendID())
	}
	if ctx.PreferredSampleRate() != 48000 {
		t.Errorf("preferred rate %d, want 48000", ctx.PreferredSampleRate())
	}
	if ctx.MaxChannelCount() < 2 {
		t.Errorf("max channels %d, want at least 2", ctx.MaxChannelCount())
	}
}

func TestMinLatency(t *testing.T) {
	ctx := testContext(t, openerFor(&fakeDevice{}))

	got := ctx.MinLatency(StreamParams{Rate: 48000})
	if got != 1920 {
		t.Errorf("min latency at 48kHz = %d frames, want 1920 (40ms)", got)
	}
	got = ctx.MinLatency(StreamParams{Rate: 8000})
	if got != 320 {
		t.Errorf("min latency at 8kHz = %d frames, want 320", got)
	}
}

func TestDeviceIDInterns(t *testing.T) {
	ctx := testContext(t, openerFor(&fakeDevice{}))

	a := ctx.DeviceID("/dev/dsp1")
	b := ctx.DeviceID("/dev/dsp1")
	if a != b {
		t.Errorf("interned ids differ: %q vs %q", a, b)
	}
}
