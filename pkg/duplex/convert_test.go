// ABOUTME: Tests for sample conversion and volume scaling
// ABOUTME: Round trips, saturation, and integer volume arithmetic
package duplex

import (
	"encoding/binary"
	"math"
	"testing"
)

func putFloats(buf []byte, vals []float32) {
	for i, v := range vals {
		binary.NativeEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

func getFloats(buf []byte, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(buf[i*4:]))
	}
	return out
}

func getInt32s(buf []byte, n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.NativeEndian.Uint32(buf[i*4:]))
	}
	return out
}

func TestFloatFixedRoundTrip(t *testing.T) {
	in := []float32{-0.999, -0.5, -0.25, 0, 0.125, 0.5, 0.999}
	buf := make([]byte, len(in)*4)
	putFloats(buf, in)

	floatToLinear32(buf, len(in), 1.0)
	linear32ToFloat(buf, len(in))

	for i, got := range getFloats(buf, len(in)) {
		if diff := math.Abs(float64(got - in[i])); diff > 1e-6 {
			t.Errorf("sample %d: round trip %v -> %v, diff %v", i, in[i], got, diff)
		}
	}
}

func TestFloatToLinear32Saturates(t *testing.T) {
	in := []float32{1.5, 1.0, -1.5}
	buf := make([]byte, len(in)*4)
	putFloats(buf, in)

	floatToLinear32(buf, len(in), 1.0)

	got := getInt32s(buf, len(in))
	if got[0] != math.MaxInt32 {
		t.Errorf("over full scale: got %d, want %d", got[0], int32(math.MaxInt32))
	}
	if got[1] != math.MaxInt32 {
		t.Errorf("full scale: got %d, want %d", got[1], int32(math.MaxInt32))
	}
	if got[2] != -math.MaxInt32 {
		t.Errorf("under full scale: got %d, want %d", got[2], int32(-math.MaxInt32))
	}
}

func TestFloatToLinear32AppliesVolume(t *testing.T) {
	buf := make([]byte, 4)
	putFloats(buf, []float32{0.5})

	floatToLinear32(buf, 1, 0.5)

	want := int32(0.25 * fullScale32)
	got := getInt32s(buf, 1)[0]
	if got < want-2 || got > want+2 {
		t.Errorf("got %d, want ~%d", got, want)
	}
}

func TestLinear16ScaleVolume(t *testing.T) {
	cases := []struct {
		name string
		in   int16
		vol  float32
		want int16
	}{
		{"half positive", 10000, 0.5, 5000},
		{"half negative", -10000, 0.5, -5000},
		{"unity", 12345, 1.0, 12345},
		{"mute", 32000, 0.0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 2)
			binary.NativeEndian.PutUint16(buf, uint16(tc.in))

			linear16ScaleVolume(buf, 1, tc.vol)

			got := int16(binary.NativeEndian.Uint16(buf))
			if got != tc.want {
				t.Errorf("%d at vol %v: got %d, want %d", tc.in, tc.vol, got, tc.want)
			}
		})
	}
}

func TestConvertersLeaveStaleSamplesAlone(t *testing.T) {
	// Converters must only touch the frames the current iteration produced.
	buf := make([]byte, 8*4)
	for i := range buf {
		buf[i] = 0xAA
	}
	putFloats(buf[:4*4], []float32{0.1, 0.2, 0.3, 0.4})

	floatToLinear32(buf, 4, 1.0)

	for i := 4 * 4; i < len(buf); i++ {
		if buf[i] != 0xAA {
			t.Fatalf("byte %d of stale region modified", i)
		}
	}
}
