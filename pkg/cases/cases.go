// Package cases is the static catalog of opcode tests. Definitions are
// built once, never mutated, and returned in ascending name order so run
// logs are reproducible and diffable.
package cases

import (
	"math"
	"sort"
	"strings"

	"github.com/ftvkyo/ptx-tests/pkg/bits"
	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

// All returns every registered test, sorted by name.
func All() []harness.Case {
	var tests []harness.Case
	tests = append(tests, bfeTests()...)
	tests = append(tests, bfiTests()...)
	tests = append(tests, brevTests()...)
	tests = append(tests, cvtTests()...)
	tests = append(tests, lg2Tests()...)
	tests = append(tests, minmaxTests()...)
	tests = append(tests, rcpTests()...)
	tests = append(tests, rsqrtTests()...)
	tests = append(tests, shiftTests()...)
	tests = append(tests, sinTests()...)
	tests = append(tests, cosTests()...)
	tests = append(tests, sqrtTests()...)
	sort.Slice(tests, func(i, j int) bool { return tests[i].Name < tests[j].Name })
	return tests
}

// lanes16 splits a scan index into two 16-bit input lanes.
func lanes16(i uint32) (lo, hi uint16) {
	return uint16(i), uint16(i >> 16)
}

const unaryF32PTX = `<LOAD_ARGS>
.reg .f32 value;
.reg .f32 result;
ld.f32 value, [input_a];
<OP> result, value;
st.f32 [output], result;`

// unaryF32 builds a single-input f32 test around one opcode.
func unaryF32(name, op string, dom harness.Domain, verify harness.VerifyFunc) harness.Case {
	return harness.Case{
		Name:   name,
		Header: ptx.DefaultHeader(),
		Body:   strings.ReplaceAll(unaryF32PTX, "<OP>", op),
		Args: []ptx.Arg{
			{Name: "input_a", Kind: ptx.F32},
			{Name: "output", Kind: ptx.F32},
		},
		Domain: dom,
		Verify: verify,
	}
}

func ftzSuffix(ftz bool) string {
	if ftz {
		return ".ftz"
	}
	return ""
}

func ftzName(ftz bool) string {
	if ftz {
		return "_ftz"
	}
	return ""
}

var (
	posInf32  = float32(math.Inf(1))
	negInf32  = float32(math.Inf(-1))
	nan32     = float32(math.NaN())
	negZero32 = bits.F32FromBits(bits.NegZero32Bits)
)

func isNaN32(x float32) bool { return x != x }

func signbit32(x float32) bool { return math.Signbit(float64(x)) }
