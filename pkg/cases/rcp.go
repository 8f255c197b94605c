package cases

import (
	"github.com/ftvkyo/ptx-tests/pkg/bits"
	"github.com/ftvkyo/ptx-tests/pkg/harness"
)

// asZero32 folds subnormals into sign-preserving zero. The .approx
// opcodes treat subnormal inputs as flushed even without .ftz.
func asZero32(x float32) (float32, bool) {
	if x == 0 || bits.IsSubnormal32(x) {
		if signbit32(x) {
			return negZero32, true
		}
		return 0, true
	}
	return x, false
}

func rcpTests() []harness.Case {
	return []harness.Case{rcp(false), rcp(true)}
}

func rcp(ftz bool) harness.Case {
	verify := harness.Approx{
		Ref:       func(x float64) float64 { return 1 / x },
		Tolerance: 0x1p-23,
		Special:   rcpSpecial,
		FTZ:       ftz,
	}
	return unaryF32("rcp_approx"+ftzName(ftz), "rcp.approx"+ftzSuffix(ftz)+".f32",
		harness.F32Range(1, 2), verify.Verify)
}

func rcpSpecial(x float32) (float32, bool) {
	switch {
	case isNaN32(x):
		return nan32, true
	case x == negInf32:
		return negZero32, true
	case x == posInf32:
		return 0, true
	}
	if z, ok := asZero32(x); ok {
		if signbit32(z) {
			return negInf32, true
		}
		return posInf32, true
	}
	return 0, false
}
