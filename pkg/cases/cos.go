package cases

import (
	"math"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
)

func cosTests() []harness.Case {
	return []harness.Case{cos(false), cos(true)}
}

func cos(ftz bool) harness.Case {
	verify := harness.Approx{
		Ref:       math.Cos,
		Tolerance: sinCosTolerance,
		Special:   cosSpecial,
		FTZ:       ftz,
	}
	return unaryF32("cos_approx"+ftzName(ftz), "cos.approx"+ftzSuffix(ftz)+".f32",
		harness.F32Range(0, math.Pi/2), verify.Verify)
}

func cosSpecial(x float32) (float32, bool) {
	switch {
	case isNaN32(x), x == posInf32, x == negInf32:
		return nan32, true
	}
	if _, ok := asZero32(x); ok {
		return 1, true
	}
	return 0, false
}
