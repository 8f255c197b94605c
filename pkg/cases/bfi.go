package cases

import (
	"strings"

	"github.com/ftvkyo/ptx-tests/pkg/bits"
	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

const bfiPTX = `<LOAD_ARGS>
.reg .<T> insert;
.reg .<T> base;
.reg .u32 pos;
.reg .u32 len;
.reg .<T> result;
ld.<T> insert, [input_a];
ld.<T> base, [input_b];
ld.u32 pos, [input_c];
ld.u32 len, [input_d];
bfi.<T> result, insert, base, pos, len;
st.<T> [output], result;`

func bfiTests() []harness.Case {
	return []harness.Case{
		bfi(ptx.B32),
		bfi(ptx.B64),
	}
}

func bfi(kind ptx.Kind) harness.Case {
	gen := func(i uint32) []harness.Value {
		h := bits.SplitMix64(uint64(i))
		h2 := bits.SplitMix64(h)
		h3 := bits.SplitMix64(h2)
		return []harness.Value{
			harness.Val(kind, h),
			harness.Val(kind, h2),
			harness.Val(ptx.U32, uint64(uint32(h3))),
			harness.Val(ptx.U32, h3>>32),
		}
	}
	ref := func(in []harness.Value) harness.Value {
		return harness.Val(kind,
			bfiRef(in[0].Bits, in[1].Bits, uint32(in[2].Bits), uint32(in[3].Bits), kind))
	}
	return harness.Case{
		Name:   "bfi_" + kind.String(),
		Header: ptx.DefaultHeader(),
		Body:   strings.ReplaceAll(bfiPTX, "<T>", kind.String()),
		Args: []ptx.Arg{
			{Name: "input_a", Kind: kind},
			{Name: "input_b", Kind: kind},
			{Name: "input_c", Kind: ptx.U32},
			{Name: "input_d", Kind: ptx.U32},
			{Name: "output", Kind: kind},
		},
		Domain: harness.Full(gen),
		Verify: harness.Exact(ref),
	}
}

// bfiRef inserts the low len bits of ins into base at pos. Bits that would
// land beyond the msb are dropped.
func bfiRef(ins, base uint64, pos, length uint32, kind ptx.Kind) uint64 {
	msb := kind.Bits() - 1
	p := int(pos & 0xFF)
	l := int(length & 0xFF)

	d := base & mask(kind)
	for i := 0; i < l; i++ {
		if p+i > msb {
			break
		}
		bit := (ins >> uint(i)) & 1
		d = d&^(1<<uint(p+i)) | bit<<uint(p+i)
	}
	return d
}
