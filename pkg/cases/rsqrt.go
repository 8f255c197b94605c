package cases

import (
	"math"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
)

func rsqrtTests() []harness.Case {
	return []harness.Case{rsqrt(false), rsqrt(true)}
}

func rsqrt(ftz bool) harness.Case {
	verify := harness.Approx{
		Ref:       func(x float64) float64 { return 1 / math.Sqrt(x) },
		Tolerance: 0x1p-22,
		Special:   rsqrtSpecial,
		FTZ:       ftz,
	}
	return unaryF32("rsqrt_approx"+ftzName(ftz), "rsqrt.approx"+ftzSuffix(ftz)+".f32",
		harness.F32Range(1, 4), verify.Verify)
}

func rsqrtSpecial(x float32) (float32, bool) {
	switch {
	case isNaN32(x):
		return nan32, true
	case x == posInf32:
		return 0, true
	}
	if z, ok := asZero32(x); ok {
		if signbit32(z) {
			return negInf32, true
		}
		return posInf32, true
	}
	if signbit32(x) {
		return nan32, true
	}
	return 0, false
}
