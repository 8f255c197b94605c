package cases

import (
	"math"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

func sqrtTests() []harness.Case {
	return []harness.Case{sqrtApprox(false), sqrtApprox(true), sqrtRN()}
}

func sqrtApprox(ftz bool) harness.Case {
	verify := harness.Approx{
		Ref:       math.Sqrt,
		Tolerance: 0x1p-23,
		Special:   sqrtSpecial,
		FTZ:       ftz,
	}
	return unaryF32("sqrt_approx"+ftzName(ftz), "sqrt.approx"+ftzSuffix(ftz)+".f32",
		harness.F32Range(1, 4), verify.Verify)
}

// sqrtRN checks the correctly-rounded variant bit for bit over the full
// f32 space. math.Sqrt is exact in double, so rounding the double result
// once to single matches round-to-nearest-even square root.
func sqrtRN() harness.Case {
	return unaryF32("sqrt_rn", "sqrt.rn.f32",
		harness.Full(func(i uint32) []harness.Value {
			return []harness.Value{harness.Val(ptx.F32, uint64(i))}
		}),
		harness.Exact(func(in []harness.Value) harness.Value {
			return harness.F32Val(float32(math.Sqrt(float64(in[0].Float32()))))
		}))
}

func sqrtSpecial(x float32) (float32, bool) {
	switch {
	case isNaN32(x):
		return nan32, true
	case x == posInf32:
		return posInf32, true
	}
	if z, ok := asZero32(x); ok {
		return z, true
	}
	if signbit32(x) {
		return nan32, true
	}
	return 0, false
}
