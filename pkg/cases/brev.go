package cases

import (
	mathbits "math/bits"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

const brevPTX = `<LOAD_ARGS>
.reg .b32 value;
.reg .b32 result;
ld.b32 value, [input_a];
brev.b32 result, value;
st.b32 [output], result;`

func brevTests() []harness.Case {
	gen := func(i uint32) []harness.Value {
		return []harness.Value{harness.Val(ptx.B32, uint64(i))}
	}
	ref := func(in []harness.Value) harness.Value {
		return harness.Val(ptx.B32, uint64(mathbits.Reverse32(uint32(in[0].Bits))))
	}
	return []harness.Case{{
		Name:   "brev_b32",
		Header: ptx.DefaultHeader(),
		Body:   brevPTX,
		Args: []ptx.Arg{
			{Name: "input_a", Kind: ptx.B32},
			{Name: "output", Kind: ptx.B32},
		},
		Domain: harness.Full(gen),
		Verify: harness.Exact(ref),
	}}
}
