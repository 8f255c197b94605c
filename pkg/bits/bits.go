// Package bits holds the audited bit-pattern utilities shared by the test
// registry and the harness: same-width reinterpreting casts, flush-to-zero,
// and the index expansion used to derive multi-word inputs from a single
// 32-bit scan index. None of these change the value's bit pattern beyond
// what their name says.
package bits

import (
	"math"

	"github.com/shogo82148/float16"
)

// F32 special bit patterns probed by every floating-point range domain.
const (
	NegInf32Bits               uint32 = 0xFF800000
	MaxNegativeSubnormal32Bits uint32 = 0x807FFFFF
	NegZero32Bits              uint32 = 0x80000000
	PosZero32Bits              uint32 = 0x00000000
	MaxPositiveSubnormal32Bits uint32 = 0x007FFFFF
	PosInf32Bits               uint32 = 0x7F800000
	NaN32Bits                  uint32 = 0x7FC00000
)

// F32FromBits reinterprets a 32-bit pattern as a float32. Width-preserving,
// no value interpretation change.
func F32FromBits(b uint32) float32 { return math.Float32frombits(b) }

// F32Bits reinterprets a float32 as its 32-bit pattern.
func F32Bits(f float32) uint32 { return math.Float32bits(f) }

// F16ToF32 widens a half-precision bit pattern to float32. Exact for every
// finite input; NaN payloads are not preserved.
func F16ToF32(b uint16) float32 {
	return float32(float16.Float16(b).Float64())
}

// F16FromF32 rounds a float32 to the nearest half-precision bit pattern.
// Rounding through float64 is exact because float64 represents every
// float32 without loss.
func F16FromF32(f float32) uint16 {
	return uint16(float16.FromFloat64(float64(f)))
}

// IsSubnormal32 reports whether f is a nonzero float32 with a zero exponent
// field.
func IsSubnormal32(f float32) bool {
	b := math.Float32bits(f)
	return b&0x7F800000 == 0 && b&0x007FFFFF != 0
}

// FlushToZero32 replaces a subnormal with a zero of the same sign when
// enabled is set. Normals, zeros, infinities and NaN pass through.
func FlushToZero32(f float32, enabled bool) float32 {
	if !enabled || !IsSubnormal32(f) {
		return f
	}
	return math.Float32frombits(math.Float32bits(f) & 0x80000000)
}

// SplitMix64 is the splitmix64 finalizer. It expands a scan index into a
// well-mixed 64-bit word; tests needing more than 64 input bits chain it.
// Pure and total for every input.
func SplitMix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
