package cases

import (
	"strings"

	"github.com/ftvkyo/ptx-tests/pkg/bits"
	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

const bfePTX = `<LOAD_ARGS>
.reg .<T> value;
.reg .u32 pos;
.reg .u32 len;
.reg .<T> result;
ld.<T> value, [input_a];
ld.u32 pos, [input_b];
ld.u32 len, [input_c];
bfe.<T> result, value, pos, len;
st.<T> [output], result;`

func bfeTests() []harness.Case {
	return []harness.Case{
		bfe(ptx.U32),
		bfe(ptx.S32),
		bfe(ptx.U64),
		bfe(ptx.S64),
	}
}

func bfe(kind ptx.Kind) harness.Case {
	gen := func(i uint32) []harness.Value {
		h := bits.SplitMix64(uint64(i))
		h2 := bits.SplitMix64(h)
		return []harness.Value{
			harness.Val(kind, h),
			harness.Val(ptx.U32, uint64(uint32(h2))),
			harness.Val(ptx.U32, h2>>32),
		}
	}
	ref := func(in []harness.Value) harness.Value {
		return harness.Val(kind, bfeRef(in[0].Bits, uint32(in[1].Bits), uint32(in[2].Bits), kind))
	}
	return harness.Case{
		Name:   "bfe_" + kind.String(),
		Header: ptx.DefaultHeader(),
		Body:   strings.ReplaceAll(bfePTX, "<T>", kind.String()),
		Args: []ptx.Arg{
			{Name: "input_a", Kind: kind},
			{Name: "input_b", Kind: ptx.U32},
			{Name: "input_c", Kind: ptx.U32},
			{Name: "output", Kind: kind},
		},
		Domain: harness.Full(gen),
		Verify: harness.Exact(ref),
	}
}

// bfeRef extracts a bit field. Position and length come from the operands'
// low byte; source bits beyond the msb replicate the field's sign bit for
// signed kinds and zero otherwise. A zero-length signed extract is zero.
func bfeRef(val uint64, pos, length uint32, kind ptx.Kind) uint64 {
	msb := kind.Bits() - 1
	p := int(pos & 0xFF)
	l := int(length & 0xFF)

	var sbit uint64
	if kind.Signed() && l != 0 {
		idx := p + l - 1
		if idx > msb {
			idx = msb
		}
		sbit = (val >> uint(idx)) & 1
	}

	var d uint64
	for i := 0; i <= msb; i++ {
		b := sbit
		if i < l && p+i <= msb {
			b = (val >> uint(p+i)) & 1
		}
		d |= b << uint(i)
	}
	return d & mask(kind)
}

func mask(kind ptx.Kind) uint64 {
	if kind.Size() == 8 {
		return ^uint64(0)
	}
	return 1<<uint(kind.Bits()) - 1
}
