package harness

import (
	"github.com/ftvkyo/ptx-tests/pkg/bits"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

// Domain is a finite, total mapping from a scan index to a test's typed
// input values. Gen must be pure: the engine calls it twice per index,
// once to marshal and once to verify.
type Domain struct {
	Size uint64
	Gen  func(i uint32) []Value
}

// Full is the default domain: the whole 32-bit index space, for inputs
// that are themselves a bit reinterpretation of the index.
func Full(gen func(i uint32) []Value) Domain {
	return Domain{Size: 1 << 32, Gen: gen}
}

// Restricted declares a smaller domain for naturally narrower inputs.
func Restricted(size uint64, gen func(i uint32) []Value) Domain {
	return Domain{Size: size, Gen: gen}
}

// f32Specials are the named edge cases appended to every floating range
// domain, probed independently of the continuous bit coverage.
var f32Specials = [...]uint32{
	bits.NegInf32Bits,
	bits.MaxNegativeSubnormal32Bits,
	bits.NegZero32Bits,
	bits.PosZero32Bits,
	bits.MaxPositiveSubnormal32Bits,
	bits.PosInf32Bits,
	bits.NaN32Bits,
}

// F32Range maps indices below the threshold to consecutive float32 bit
// patterns in [lo, hi] and indices at or after it through the special
// table. lo and hi must be non-negative with lo <= hi.
func F32Range(lo, hi float32) Domain {
	loBits := bits.F32Bits(lo)
	hiBits := bits.F32Bits(hi)
	span := uint64(hiBits-loBits) + 1
	return Domain{
		Size: span + uint64(len(f32Specials)),
		Gen: func(i uint32) []Value {
			b := bits.NaN32Bits
			if uint64(i) < span {
				b = loBits + i
			} else if k := uint64(i) - span; k < uint64(len(f32Specials)) {
				b = f32Specials[k]
			}
			return []Value{Val(ptx.F32, uint64(b))}
		},
	}
}
