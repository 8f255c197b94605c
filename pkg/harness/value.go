// Package harness is the test engine: the test definition model, the
// enumeration domains, the tolerance-aware verifier policies, and the
// execution loop that drives a loaded device program across a test's
// input domain.
package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ftvkyo/ptx-tests/pkg/bits"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

// Value is a typed scalar carried as its raw bit pattern. The kind decides
// how the bits are marshaled, compared, and printed.
type Value struct {
	Kind ptx.Kind
	Bits uint64
}

// Val builds a Value from a kind and a bit pattern (low Kind.Bits() bits
// significant).
func Val(k ptx.Kind, b uint64) Value {
	return Value{Kind: k, Bits: b & widthMask(k)}
}

// F32Val boxes a float32.
func F32Val(f float32) Value {
	return Value{Kind: ptx.F32, Bits: uint64(bits.F32Bits(f))}
}

func widthMask(k ptx.Kind) uint64 {
	if k.Size() == 8 {
		return ^uint64(0)
	}
	return 1<<(uint(k.Size())*8) - 1
}

// Int64 sign-extends a signed value's bits.
func (v Value) Int64() int64 {
	switch v.Kind.Size() {
	case 2:
		return int64(int16(uint16(v.Bits)))
	case 4:
		return int64(int32(uint32(v.Bits)))
	default:
		return int64(v.Bits)
	}
}

// Float32 reinterprets an F32 value's bits.
func (v Value) Float32() float32 {
	return bits.F32FromBits(uint32(v.Bits))
}

// Float64 widens a floating value to float64 for tolerance comparison.
func (v Value) Float64() float64 {
	switch v.Kind {
	case ptx.F16:
		return float64(bits.F16ToF32(uint16(v.Bits)))
	default:
		return float64(v.Float32())
	}
}

// IsNaN reports whether a floating value is any NaN bit pattern.
func (v Value) IsNaN() bool {
	switch v.Kind {
	case ptx.F16:
		return v.Bits&0x7C00 == 0x7C00 && v.Bits&0x03FF != 0
	case ptx.F32:
		return v.Bits&0x7F800000 == 0x7F800000 && v.Bits&0x007FFFFF != 0
	}
	return false
}

func (v Value) String() string {
	switch {
	case v.Kind.Float():
		return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	case v.Kind.Signed():
		return strconv.FormatInt(v.Int64(), 10)
	case v.Kind == ptx.B16 || v.Kind == ptx.B32 || v.Kind == ptx.B64:
		return fmt.Sprintf("0x%0*X", v.Kind.Size()*2, v.Bits)
	default:
		return strconv.FormatUint(v.Bits, 10)
	}
}

// FormatInputs renders a test input for the failure line: a bare value for
// unary tests, a tuple otherwise.
func FormatInputs(in []Value) string {
	if len(in) == 1 {
		return in[0].String()
	}
	parts := make([]string, len(in))
	for i, v := range in {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
