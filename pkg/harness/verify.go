package harness

import (
	"math"

	"github.com/ftvkyo/ptx-tests/pkg/bits"
)

// VerifyFunc decides acceptance of a device output for one input,
// returning the host-computed expected value on rejection. Must be pure.
type VerifyFunc func(in []Value, out Value) (expected Value, ok bool)

// Exact builds the zero-tolerance policy for bit-manipulation opcodes:
// the device output must equal the host reference bit for bit. NaN
// compares equal to NaN for floating outputs, never to any non-NaN
// pattern.
func Exact(ref func(in []Value) Value) VerifyFunc {
	return func(in []Value, out Value) (Value, bool) {
		want := ref(in)
		if want.Kind.Float() && want.IsNaN() && out.IsNaN() {
			return want, true
		}
		return want, want.Bits == out.Bits
	}
}

// Approx is the tolerance policy for the f32 approximation opcodes.
// Special inputs bypass the tolerance rule and require the enumerated
// expected output; everything else is accepted when the widened device
// output is within Tolerance of the high-precision reference. The bound
// is absolute, matching how the vendor states accuracy for these opcodes.
// When FTZ is set, flush-to-zero is applied identically to the input
// before special-case dispatch and to both host and device expectations
// before comparison.
type Approx struct {
	Ref       func(x float64) float64
	Tolerance float64
	Special   func(x float32) (float32, bool)
	FTZ       bool
}

// Verify implements VerifyFunc.
func (a Approx) Verify(in []Value, out Value) (Value, bool) {
	x := bits.FlushToZero32(in[0].Float32(), a.FTZ)
	got := out.Float32()

	if want, ok := a.Special(x); ok {
		want = bits.FlushToZero32(want, a.FTZ)
		expected := F32Val(want)
		if expected.IsNaN() && out.IsNaN() {
			return expected, true
		}
		return expected, bits.F32Bits(want) == bits.F32Bits(got)
	}

	precise := a.Ref(float64(x))
	ref32 := bits.FlushToZero32(float32(precise), a.FTZ)
	diff := math.Abs(float64(got) - float64(ref32))
	return F32Val(float32(precise)), diff <= a.Tolerance
}
