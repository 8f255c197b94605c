package cases

import (
	"strings"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

const shiftPTX = `<LOAD_ARGS>
.reg .b16 value;
.reg .b16 amount16;
.reg .u32 amount;
.reg .b16 result;
ld.b16 value, [input_a];
ld.b16 amount16, [input_b];
cvt.u32.u16 amount, amount16;
<OP> result, value, amount;
st.b16 [output], result;`

func shiftTests() []harness.Case {
	return []harness.Case{
		shl(),
		shr(ptx.U16),
		shr(ptx.S16),
	}
}

func shiftCase(name, op string, valueKind ptx.Kind, ref func(value uint16, amount uint32) uint16) harness.Case {
	gen := func(i uint32) []harness.Value {
		value, amount := lanes16(i)
		return []harness.Value{
			harness.Val(valueKind, uint64(value)),
			harness.Val(ptx.U16, uint64(amount)),
		}
	}
	return harness.Case{
		Name:   name,
		Header: ptx.DefaultHeader(),
		Body:   strings.ReplaceAll(shiftPTX, "<OP>", op),
		Args: []ptx.Arg{
			{Name: "input_a", Kind: valueKind},
			{Name: "input_b", Kind: ptx.U16},
			{Name: "output", Kind: valueKind},
		},
		Domain: harness.Full(gen),
		Verify: harness.Exact(func(in []harness.Value) harness.Value {
			return harness.Val(valueKind, uint64(ref(uint16(in[0].Bits), uint32(in[1].Bits))))
		}),
	}
}

func shl() harness.Case {
	return shiftCase("shl_b16", "shl.b16", ptx.B16, func(value uint16, amount uint32) uint16 {
		if amount >= 16 {
			return 0
		}
		return value << amount
	})
}

// shr builds the right-shift test for the given scalar kind. The
// saturation rule is decided here, once, by the kind's signedness: an
// oversized unsigned shift produces zero, an oversized signed shift
// replicates the sign bit.
func shr(kind ptx.Kind) harness.Case {
	ref := func(value uint16, amount uint32) uint16 {
		if kind.Signed() {
			if amount >= 16 {
				amount = 15
			}
			return uint16(int16(value) >> amount)
		}
		if amount >= 16 {
			return 0
		}
		return value >> amount
	}
	return shiftCase("shr_"+kind.String(), "shr."+kind.String(), kind, ref)
}
