package ptx

import (
	"strings"
	"testing"
)

var genArgs = []Arg{
	{Name: "input_a", Kind: U32},
	{Name: "output", Kind: U32},
}

const genBody = `<LOAD_ARGS>
.reg .b32 value;
ld.b32 value, [input_a];
st.b32 [output], value;`

func TestDirectProgramShape(t *testing.T) {
	prog := Direct(DefaultHeader(), genBody, genArgs)

	for _, want := range []string{
		".version 6.5",
		".target sm_60",
		".address_size 64",
		".visible .entry run(",
		"\t.param .u64 input_a_ptr,\n",
		"\t.param .u64 output_ptr\n", // last parameter has no comma
		"ld.param.u64 input_a, [input_a_ptr];",
		"mad.lo.u64 input_a, gen_gid_wide, 4, input_a;",
		"ld.param.u64 output, [output_ptr];",
		"\tret;\n}",
	} {
		if !strings.Contains(prog, want) {
			t.Errorf("Direct output missing %q:\n%s", want, prog)
		}
	}

	if strings.Contains(prog, LoadArgs) {
		t.Error("placeholder left unexpanded")
	}
	// The body must reference arguments by name, untouched.
	if !strings.Contains(prog, "ld.b32 value, [input_a];") {
		t.Errorf("body line rewritten:\n%s", prog)
	}
}

func TestDirectParamOrder(t *testing.T) {
	prog := Direct(DefaultHeader(), genBody, genArgs)
	a := strings.Index(prog, "input_a_ptr")
	b := strings.Index(prog, "output_ptr")
	if a < 0 || b < 0 || a > b {
		t.Errorf("parameters out of declared order (input_a at %d, output at %d)", a, b)
	}
}

func TestCompiledProgramShape(t *testing.T) {
	src := Compiled(genBody, genArgs)

	for _, want := range []string{
		`extern "C" __global__ void run(void *input_a_mem, void *output_mem)`,
		"unsigned long long gen_gid = (unsigned long long)blockIdx.x * blockDim.x + threadIdx.x;",
		"void *input_a = (char *)input_a_mem + gen_gid * 4ULL;",
		"void *output = (char *)output_mem + gen_gid * 4ULL;",
		"asm volatile(",
		`".reg .u64 arg0;\n\t"`,
		`"mov.u64 arg0, %0;\n\t"`,
		`"mov.u64 arg1, %1;\n\t"`,
		// Bracketed name references become positional registers.
		`"ld.b32 value, [arg0];\n\t"`,
		`"st.b32 [arg1], value;\n\t"`,
		`"l"(input_a), "l"(output)`,
		`"memory"`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("Compiled output missing %q:\n%s", want, src)
		}
	}
}

func TestCompiledEscapesPercent(t *testing.T) {
	body := "<LOAD_ARGS>\nmov.u32 r, %tid.x;"
	src := Compiled(body, genArgs[:1])
	if !strings.Contains(src, `%%tid.x`) {
		t.Errorf("literal %% not doubled:\n%s", src)
	}
	// Operand references emitted by the expansion stay single.
	if !strings.Contains(src, `mov.u64 arg0, %0;`) {
		t.Errorf("operand reference mangled:\n%s", src)
	}
}

func TestCompiledPerLineLiterals(t *testing.T) {
	src := Compiled(genBody, genArgs)
	// Each body line is its own string literal terminated by \n\t.
	if got := strings.Count(src, `\n\t"`); got < 4 {
		t.Errorf("expected one literal per line, found %d terminators:\n%s", got, src)
	}
}

// Value decoding widens floats through float32, so every floating kind
// must fit in four bytes.
func TestFloatKindsFitFloat32(t *testing.T) {
	for k := Kind(0); k < kindCount; k++ {
		if k.Float() && k.Size() > 4 {
			t.Errorf("%s: %d-byte floating kind has no exact decode", k, k.Size())
		}
	}
}

func TestKindTable(t *testing.T) {
	tests := []struct {
		k      Kind
		name   string
		size   int
		signed bool
		float  bool
	}{
		{B16, "b16", 2, false, false},
		{U32, "u32", 4, false, false},
		{S64, "s64", 8, true, false},
		{F16, "f16", 2, false, true},
		{F32, "f32", 4, false, true},
	}
	for _, tc := range tests {
		if tc.k.String() != tc.name || tc.k.Size() != tc.size ||
			tc.k.Signed() != tc.signed || tc.k.Float() != tc.float {
			t.Errorf("%s: got (%s, %d, %v, %v)", tc.name,
				tc.k.String(), tc.k.Size(), tc.k.Signed(), tc.k.Float())
		}
	}
}
