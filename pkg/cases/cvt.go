package cases

import (
	"math"
	"strconv"
	"strings"

	"github.com/ftvkyo/ptx-tests/pkg/bits"
	"github.com/ftvkyo/ptx-tests/pkg/harness"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

// cvtPTX is shared by all conversion tests; <OP> carries the full cvt
// opcode and <ST>/<LT> the store/load widths.
const cvtPTX = `<LOAD_ARGS>
.reg .b<LT> value;
.reg .b<ST> result;
ld.b<LT> value, [input_a];
<OP> result, value;
st.b<ST> [output], result;`

func cvtBody(op string, src, dst ptx.Kind) string {
	body := strings.ReplaceAll(cvtPTX, "<OP>", op)
	body = strings.ReplaceAll(body, "<LT>", strconv.Itoa(src.Bits()))
	return strings.ReplaceAll(body, "<ST>", strconv.Itoa(dst.Bits()))
}

func cvtCase(name, op string, src, dst ptx.Kind, dom harness.Domain, ref func(in harness.Value) harness.Value) harness.Case {
	return harness.Case{
		Name:   name,
		Header: ptx.DefaultHeader(),
		Body:   cvtBody(op, src, dst),
		Args: []ptx.Arg{
			{Name: "input_a", Kind: src},
			{Name: "output", Kind: dst},
		},
		Domain: dom,
		Verify: harness.Exact(func(in []harness.Value) harness.Value { return ref(in[0]) }),
	}
}

// dom16 enumerates every 16-bit pattern of the given kind.
func dom16(kind ptx.Kind) harness.Domain {
	return harness.Restricted(1<<16, func(i uint32) []harness.Value {
		return []harness.Value{harness.Val(kind, uint64(uint16(i)))}
	})
}

// domF32 enumerates every float32 bit pattern.
func domF32() harness.Domain {
	return harness.Full(func(i uint32) []harness.Value {
		return []harness.Value{harness.Val(ptx.F32, uint64(i))}
	})
}

func cvtTests() []harness.Case {
	return []harness.Case{
		// Integer width changes: zero-extend, sign-extend, saturate.
		cvtCase("cvt_u32_u16", "cvt.u32.u16", ptx.U16, ptx.U32, dom16(ptx.U16),
			func(in harness.Value) harness.Value {
				return harness.Val(ptx.U32, in.Bits)
			}),
		cvtCase("cvt_s32_s16", "cvt.s32.s16", ptx.S16, ptx.S32, dom16(ptx.S16),
			func(in harness.Value) harness.Value {
				return harness.Val(ptx.S32, uint64(uint32(int32(in.Int64()))))
			}),
		cvtCase("cvt_sat_s16_s32", "cvt.sat.s16.s32", ptx.S32, ptx.S16,
			harness.Full(func(i uint32) []harness.Value {
				return []harness.Value{harness.Val(ptx.S32, uint64(i))}
			}),
			func(in harness.Value) harness.Value {
				v := in.Int64()
				if v > math.MaxInt16 {
					v = math.MaxInt16
				} else if v < math.MinInt16 {
					v = math.MinInt16
				}
				return harness.Val(ptx.S16, uint64(uint16(int16(v))))
			}),

		// Integer to float: every u16 is exactly representable in f32.
		cvtCase("cvt_rn_f32_u16", "cvt.rn.f32.u16", ptx.U16, ptx.F32, dom16(ptx.U16),
			func(in harness.Value) harness.Value {
				return harness.F32Val(float32(uint16(in.Bits)))
			}),

		// Float to integer: saturating, NaN converts to zero.
		cvtCase("cvt_rzi_u16_f32", "cvt.rzi.u16.f32", ptx.F32, ptx.U16, domF32(),
			func(in harness.Value) harness.Value {
				return harness.Val(ptx.U16, cvtF32ToU16RZ(in.Float32()))
			}),
		cvtCase("cvt_rni_s16_f32", "cvt.rni.s16.f32", ptx.F32, ptx.S16, domF32(),
			func(in harness.Value) harness.Value {
				return harness.Val(ptx.S16, cvtF32ToS16RN(in.Float32()))
			}),

		// Half precision, both directions. Widening is exact; narrowing
		// rounds to nearest even.
		cvtCase("cvt_f32_f16", "cvt.f32.f16", ptx.F16, ptx.F32, dom16(ptx.F16),
			func(in harness.Value) harness.Value {
				return harness.F32Val(bits.F16ToF32(uint16(in.Bits)))
			}),
		cvtCase("cvt_f16_f32", "cvt.rn.f16.f32", ptx.F32, ptx.F16, domF32(),
			func(in harness.Value) harness.Value {
				return harness.Val(ptx.F16, uint64(bits.F16FromF32(in.Float32())))
			}),
	}
}

// cvtF32ToU16RZ truncates toward zero with saturation to [0, 65535];
// NaN converts to 0.
func cvtF32ToU16RZ(x float32) uint64 {
	if isNaN32(x) || x <= 0 {
		return 0
	}
	t := math.Trunc(float64(x))
	if t >= math.MaxUint16 {
		return math.MaxUint16
	}
	return uint64(t)
}

// cvtF32ToS16RN rounds to nearest even with saturation to
// [-32768, 32767]; NaN converts to 0.
func cvtF32ToS16RN(x float32) uint64 {
	if isNaN32(x) {
		return 0
	}
	r := math.RoundToEven(float64(x))
	if r >= math.MaxInt16 {
		return 0x7FFF
	}
	if r <= math.MinInt16 {
		return 0x8000
	}
	return uint64(uint16(int16(r)))
}
