package cases

import (
	"math"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
)

func lg2Tests() []harness.Case {
	return []harness.Case{lg2(false), lg2(true)}
}

func lg2(ftz bool) harness.Case {
	verify := harness.Approx{
		Ref:       math.Log2,
		Tolerance: 0x1p-22,
		Special:   lg2Special,
		FTZ:       ftz,
	}
	return unaryF32("lg2_approx"+ftzName(ftz), "lg2.approx"+ftzSuffix(ftz)+".f32",
		harness.F32Range(1, 2), verify.Verify)
}

func lg2Special(x float32) (float32, bool) {
	switch {
	case isNaN32(x):
		return nan32, true
	case x == posInf32:
		return posInf32, true
	}
	if _, ok := asZero32(x); ok {
		return negInf32, true
	}
	if signbit32(x) {
		return nan32, true
	}
	return 0, false
}
