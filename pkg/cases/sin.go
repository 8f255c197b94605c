package cases

import (
	"math"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
)

// sinCosTolerance is the documented 2^-20.9 absolute bound for
// sin.approx/cos.approx over the tested quadrant.
const sinCosTolerance = 0.00000051106141211332948885584179164092160363501768

func sinTests() []harness.Case {
	return []harness.Case{sin(false), sin(true)}
}

func sin(ftz bool) harness.Case {
	verify := harness.Approx{
		Ref:       math.Sin,
		Tolerance: sinCosTolerance,
		Special:   sinSpecial,
		FTZ:       ftz,
	}
	return unaryF32("sin_approx"+ftzName(ftz), "sin.approx"+ftzSuffix(ftz)+".f32",
		harness.F32Range(0, math.Pi/2), verify.Verify)
}

func sinSpecial(x float32) (float32, bool) {
	switch {
	case isNaN32(x), x == posInf32, x == negInf32:
		return nan32, true
	}
	if z, ok := asZero32(x); ok {
		return z, true
	}
	return 0, false
}
