package cuda

import (
	"errors"
	"os"
	"testing"
)

// driverPath is the conventional install location probed by the
// hardware-gated tests.
const driverPath = "/usr/lib/x86_64-linux-gnu/libcuda.so.1"

func requireDriver(t *testing.T) *Driver {
	t.Helper()
	if _, err := os.Stat(driverPath); err != nil {
		t.Skipf("driver library not found at %s", driverPath)
	}
	drv, err := Open(driverPath)
	if err != nil {
		t.Skipf("driver present but unusable: %v", err)
	}
	return drv
}

func TestOpenMissingLibrary(t *testing.T) {
	if _, err := Open("/nonexistent/libcuda.so"); err == nil {
		t.Fatal("opening a nonexistent library should fail")
	}
	if _, err := OpenCompiler("/nonexistent/libnvrtc.so"); err == nil {
		t.Fatal("opening a nonexistent compiler should fail")
	}
}

func TestErrorClassification(t *testing.T) {
	var err error = &CompileError{Status: "NVRTC_ERROR_COMPILATION", Log: "syntax error"}
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Error("CompileError lost through the error interface")
	}

	rerr := &ResolveError{Library: "libcuda.so", Symbol: "cuInit", Err: os.ErrNotExist}
	if !errors.Is(rerr, os.ErrNotExist) {
		t.Error("ResolveError should unwrap to its cause")
	}

	derr := &DriverError{Call: "cuLaunchKernel", Code: 700, Desc: "an illegal memory access was encountered"}
	want := "driver: cuLaunchKernel failed: an illegal memory access was encountered (700)"
	if derr.Error() != want {
		t.Errorf("DriverError message %q, want %q", derr.Error(), want)
	}
}

func TestCStrings(t *testing.T) {
	ptrs, bufs := cStrings([]string{"--gpu-architecture=compute_60", ""})
	if len(ptrs) != 2 || len(bufs) != 2 {
		t.Fatalf("got %d pointers, %d buffers", len(ptrs), len(bufs))
	}
	for i, b := range bufs {
		if len(b) == 0 || b[len(b)-1] != 0 {
			t.Errorf("buffer %d not NUL-terminated: %q", i, b)
		}
		if ptrs[i] != &b[0] {
			t.Errorf("pointer %d does not address its buffer", i)
		}
	}
}

func TestDeviceRoundTrip(t *testing.T) {
	drv := requireDriver(t)
	dev, err := drv.NewDevice()
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	defer dev.Close()

	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	d, err := dev.Alloc(uint64(len(src)))
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	defer dev.Free(d)

	if err := dev.CopyToDevice(d, src); err != nil {
		t.Fatalf("CopyToDevice: %v", err)
	}
	dst := make([]byte, len(src))
	if err := dev.CopyFromDevice(dst, d); err != nil {
		t.Fatalf("CopyFromDevice: %v", err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("byte %d: %d != %d", i, dst[i], src[i])
		}
	}
}
