package cases

import (
	"strings"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

const minmaxPTX = `<LOAD_ARGS>
.reg .b16 a;
.reg .b16 b;
.reg .b16 result;
ld.b16 a, [input_a];
ld.b16 b, [input_b];
<OP> result, a, b;
st.b16 [output], result;`

func minmaxTests() []harness.Case {
	return []harness.Case{
		minmax("min", ptx.U16),
		minmax("min", ptx.S16),
		minmax("max", ptx.U16),
		minmax("max", ptx.S16),
	}
}

func minmax(op string, kind ptx.Kind) harness.Case {
	gen := func(i uint32) []harness.Value {
		a, b := lanes16(i)
		return []harness.Value{
			harness.Val(kind, uint64(a)),
			harness.Val(kind, uint64(b)),
		}
	}
	ref := func(in []harness.Value) harness.Value {
		pick := minmaxRef(op, kind, in[0], in[1])
		return pick
	}
	return harness.Case{
		Name:   op + "_" + kind.String(),
		Header: ptx.DefaultHeader(),
		Body:   strings.ReplaceAll(minmaxPTX, "<OP>", op+"."+kind.String()),
		Args: []ptx.Arg{
			{Name: "input_a", Kind: kind},
			{Name: "input_b", Kind: kind},
			{Name: "output", Kind: kind},
		},
		Domain: harness.Full(gen),
		Verify: harness.Exact(ref),
	}
}

func minmaxRef(op string, kind ptx.Kind, a, b harness.Value) harness.Value {
	aLess := a.Bits < b.Bits
	if kind.Signed() {
		aLess = a.Int64() < b.Int64()
	}
	if (op == "min") == aLess {
		return a
	}
	return b
}
