// ABOUTME: In-place sample format conversion and volume scaling
// ABOUTME: Floating to fixed-point and back, plus integer 16-bit volume
package duplex

import (
	"encoding/binary"
	"math"
)

const (
	fullScale32 = 1 << 31
	fullScale16 = 1 << 15
)

// floatToLinear32 converts the first sampleCount float32 samples of buf to
// 32-bit fixed-point in place, scaling by vol and saturating at the
// representable range rather than wrapping.
func floatToLinear32(buf []byte, sampleCount int, vol float32) {
	for i := 0; i < sampleCount; i++ {
		off := i * 4
		f := math.Float32frombits(binary.NativeEndian.Uint32(buf[off:]))
		v := int64(float64(f) * float64(vol) * fullScale32)
		if v < -math.MaxInt32 {
			v = -math.MaxInt32
		} else if v > math.MaxInt32 {
			v = math.MaxInt32
		}
		binary.NativeEndian.PutUint32(buf[off:], uint32(int32(v)))
	}
}

// linear32ToFloat converts the first sampleCount 32-bit fixed-point samples
// of buf to float32 in [-1.0, 1.0) in place.
func linear32ToFloat(buf []byte, sampleCount int) {
	const scale = 1.0 / fullScale32
	for i := 0; i < sampleCount; i++ {
		off := i * 4
		v := int32(binary.NativeEndian.Uint32(buf[off:]))
		binary.NativeEndian.PutUint32(buf[off:], math.Float32bits(float32(scale*float64(v))))
	}
}

// linear16ScaleVolume applies volume to the first sampleCount 16-bit samples
// of buf in place. Integer arithmetic only: the volume becomes a fixed-point
// multiplier and the product is renormalized by an arithmetic right shift.
func linear16ScaleVolume(buf []byte, sampleCount int, vol float32) {
	mult := int32(vol * fullScale16)
	for i := 0; i < sampleCount; i++ {
		off := i * 2
		v := int16(binary.NativeEndian.Uint16(buf[off:]))
		binary.NativeEndian.PutUint16(buf[off:], uint16(int16((int32(v)*mult)>>15)))
	}
}
