package harness

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ftvkyo/ptx-tests/pkg/cuda"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

// rejectingBackend simulates a compiler that rejects every program.
type rejectingBackend struct{ log string }

func (rejectingBackend) Name() string { return "rejecting" }

func (rejectingBackend) Source(c *Case) string { return c.Body }

func (b rejectingBackend) Build(dev *cuda.Device, c *Case) (*cuda.Module, error) {
	return nil, &cuda.CompileError{Status: "NVRTC_ERROR_COMPILATION", Log: b.log}
}

// faultingBackend simulates a compiler that cannot be invoked at all.
type faultingBackend struct{}

func (faultingBackend) Name() string { return "faulting" }

func (faultingBackend) Source(c *Case) string { return c.Body }

func (faultingBackend) Build(dev *cuda.Device, c *Case) (*cuda.Module, error) {
	return nil, &cuda.InvocationError{Call: "nvrtcCreateProgram", Status: "NVRTC_ERROR_OUT_OF_MEMORY"}
}

func testCase() *Case {
	return &Case{
		Name:   "stub_case",
		Header: ptx.DefaultHeader(),
		Body:   "<LOAD_ARGS>\nst.b32 [output], 0;",
		Args: []ptx.Arg{
			{Name: "input_a", Kind: ptx.B32},
			{Name: "output", Kind: ptx.B32},
		},
		Domain: Restricted(4, func(i uint32) []Value {
			return []Value{Val(ptx.B32, uint64(i))}
		}),
		Verify: Exact(func(in []Value) Value { return Val(ptx.B32, 0) }),
	}
}

func TestEngineCompileRejectionIsMiscompile(t *testing.T) {
	// A per-test compiler rejection is a test outcome, not a run fault, so
	// no device is touched.
	e := New(nil, rejectingBackend{log: "ptxas fatal"}, zerolog.Nop())

	outcome, err := e.Run(testCase())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Kind != Miscompile {
		t.Fatalf("Kind = %v, want Miscompile", outcome.Kind)
	}
	if outcome.Name != "stub_case" {
		t.Errorf("Name = %q", outcome.Name)
	}
	if outcome.Log != "ptxas fatal" {
		t.Errorf("Log = %q, compiler log not carried", outcome.Log)
	}
	if !outcome.Failed() {
		t.Error("Miscompile should count as a failure")
	}
}

// loaderRejectingBackend simulates the driver's loader refusing one
// test's generated PTX.
type loaderRejectingBackend struct{}

func (loaderRejectingBackend) Name() string { return "loader-rejecting" }

func (loaderRejectingBackend) Source(c *Case) string { return c.Body }

func (loaderRejectingBackend) Build(dev *cuda.Device, c *Case) (*cuda.Module, error) {
	return nil, loadFault(&cuda.DriverError{
		Call: "cuModuleLoadData", Code: 218, Desc: "a PTX JIT compilation failed",
	})
}

func TestLoadFaultClassification(t *testing.T) {
	derr := &cuda.DriverError{Call: "cuModuleLoadData", Code: 218, Desc: "a PTX JIT compilation failed"}
	var cerr *cuda.CompileError
	if !errors.As(loadFault(derr), &cerr) {
		t.Fatal("loader rejection not downgraded to a compile fault")
	}
	if cerr.Status != "a PTX JIT compilation failed" {
		t.Errorf("Status = %q", cerr.Status)
	}
	if cerr.Log == "" {
		t.Error("driver diagnostic dropped")
	}

	// Without a description the raw code is still surfaced.
	bare := &cuda.DriverError{Call: "cuModuleLoadData", Code: 218}
	if !errors.As(loadFault(bare), &cerr) || cerr.Status != "code 218" {
		t.Errorf("bare rejection Status = %q, want the code", cerr.Status)
	}

	// Non-driver faults pass through untouched.
	ierr := &cuda.InvocationError{Call: "nvrtcCreateProgram", Status: "NVRTC_ERROR_OUT_OF_MEMORY"}
	if loadFault(ierr) != error(ierr) {
		t.Error("unrelated fault rewritten")
	}
}

func TestEngineLoaderRejectionIsMiscompile(t *testing.T) {
	// The loader refusing a generated program is that test's outcome; the
	// run continues.
	e := New(nil, loaderRejectingBackend{}, zerolog.Nop())

	outcome, err := e.Run(testCase())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Kind != Miscompile {
		t.Fatalf("Kind = %v, want Miscompile", outcome.Kind)
	}
	if !outcome.Failed() {
		t.Error("loader rejection should count as a failure")
	}
}

func TestEngineBatchClampedToDomain(t *testing.T) {
	e := New(nil, rejectingBackend{}, zerolog.Nop())
	if got := e.batchElems(1 << 16); got != 1<<16 {
		t.Errorf("small domain capacity = %d, want the domain size", got)
	}
	if got := e.batchElems(1 << 32); got != e.batch {
		t.Errorf("large domain capacity = %d, want one batch", got)
	}
	if got := e.batchElems(e.batch); got != e.batch {
		t.Errorf("exact-fit capacity = %d", got)
	}
}

func TestEngineInvocationFaultIsFatal(t *testing.T) {
	e := New(nil, faultingBackend{}, zerolog.Nop())

	_, err := e.Run(testCase())
	if err == nil {
		t.Fatal("expected a fatal error")
	}
	var ierr *cuda.InvocationError
	if !errors.As(err, &ierr) {
		t.Fatalf("error type = %T", err)
	}
}

func TestOutcomeLines(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{Outcome{Kind: Pass, Name: "shl_b16"}, "shl_b16: OK"},
		{Outcome{Kind: Miscompile, Name: "cos_approx"}, "cos_approx: FAIL: Compilation mismatch"},
		{
			Outcome{
				Kind:     Mismatch,
				Name:     "shr_u16",
				Inputs:   []Value{Val(ptx.B16, 0x1234), Val(ptx.U16, 20)},
				Output:   Val(ptx.B16, 0x0001),
				Expected: Val(ptx.B16, 0),
			},
			"shr_u16: FAIL: Input (0x1234, 20), computed on GPU 0x0001, computed on CPU 0x0000",
		},
		{
			Outcome{
				Kind:     Mismatch,
				Name:     "sin_approx",
				Inputs:   []Value{F32Val(0.5)},
				Output:   F32Val(0.25),
				Expected: F32Val(0.479425538604203),
			},
			"sin_approx: FAIL: Input 0.5, computed on GPU 0.25, computed on CPU 0.47942555",
		},
	}
	for _, tc := range tests {
		if got := tc.o.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestFormatInputs(t *testing.T) {
	one := FormatInputs([]Value{Val(ptx.U16, 7)})
	if one != "7" {
		t.Errorf("unary input = %q, want bare value", one)
	}
	three := FormatInputs([]Value{Val(ptx.U32, 1), Val(ptx.U32, 2), Val(ptx.U32, 3)})
	if three != "(1, 2, 3)" {
		t.Errorf("tuple = %q", three)
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Val(ptx.B16, 0xAB), "0x00AB"},
		{Val(ptx.B32, 0xDEADBEEF), "0xDEADBEEF"},
		{Val(ptx.S16, 0xFFFF), "-1"},
		{Val(ptx.S32, 0x80000000), "-2147483648"},
		{Val(ptx.U16, 65535), "65535"},
		{F32Val(1.5), "1.5"},
		{F32Val(0.1), "0.1"},
	}
	for _, tc := range tests {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("String(%v bits %#x) = %q, want %q", tc.v.Kind, tc.v.Bits, got, tc.want)
		}
	}
}
