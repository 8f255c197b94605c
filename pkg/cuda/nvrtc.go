package cuda

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Compilation rejected by the compiler; every other nonzero status means
// the compiler itself could not be invoked.
const nvrtcErrorCompilation = 6

// Compiler is the capability surface of the runtime compiler, engaged only
// when the compiled backend is selected. One instance is shared across the
// run.
type Compiler struct {
	path string

	create func(prog *uintptr, src string, name string, n int32,
		headers unsafe.Pointer, includeNames unsafe.Pointer) int32
	compile  func(prog uintptr, n int32, opts unsafe.Pointer) int32
	errorStr func(status int32) uintptr
	logSize  func(prog uintptr, n *uint64) int32
	log      func(prog uintptr, buf unsafe.Pointer) int32
	ptxSize  func(prog uintptr, n *uint64) int32
	ptx      func(prog uintptr, buf unsafe.Pointer) int32
	destroy  func(prog *uintptr) int32
}

// OpenCompiler loads the runtime compiler library and resolves its entry
// points.
func OpenCompiler(path string) (*Compiler, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("compiler: open %s: %w", path, err)
	}
	c := &Compiler{path: path}
	for _, sym := range []struct {
		name string
		fptr any
	}{
		{"nvrtcCreateProgram", &c.create},
		{"nvrtcCompileProgram", &c.compile},
		{"nvrtcGetErrorString", &c.errorStr},
		{"nvrtcGetProgramLogSize", &c.logSize},
		{"nvrtcGetProgramLog", &c.log},
		{"nvrtcGetPTXSize", &c.ptxSize},
		{"nvrtcGetPTX", &c.ptx},
		{"nvrtcDestroyProgram", &c.destroy},
	} {
		addr, err := purego.Dlsym(lib, sym.name)
		if err != nil {
			return nil, &ResolveError{Library: path, Symbol: sym.name, Err: err}
		}
		purego.RegisterFunc(sym.fptr, addr)
	}
	return c, nil
}

func (c *Compiler) statusString(status int32) string {
	p := c.errorStr(status)
	if p == 0 {
		return fmt.Sprintf("status %d", status)
	}
	return goString(p)
}

// Compile submits generated source and returns the compiled program image
// as PTX text, ready for the driver's loader. A rejection of this source
// returns *CompileError carrying the diagnostic log; any other failure
// returns *InvocationError. The transient program handle is released on
// both paths.
func (c *Compiler) Compile(src string, opts []string) (string, error) {
	var prog uintptr
	if st := c.create(&prog, src, "generated.cu", 0, nil, nil); st != 0 {
		return "", &InvocationError{Call: "nvrtcCreateProgram", Status: c.statusString(st)}
	}
	defer c.destroy(&prog)

	optPtrs, optBufs := cStrings(opts)
	var optArg unsafe.Pointer
	if len(optPtrs) > 0 {
		optArg = unsafe.Pointer(&optPtrs[0])
	}
	st := c.compile(prog, int32(len(opts)), optArg)
	runtime.KeepAlive(optBufs)
	runtime.KeepAlive(optPtrs)

	if st != 0 {
		log, lerr := c.programLog(prog)
		if lerr != nil {
			return "", lerr
		}
		if st == nvrtcErrorCompilation {
			return "", &CompileError{Status: c.statusString(st), Log: log}
		}
		return "", &InvocationError{Call: "nvrtcCompileProgram", Status: c.statusString(st), Log: log}
	}

	var n uint64
	if st := c.ptxSize(prog, &n); st != 0 {
		return "", &InvocationError{Call: "nvrtcGetPTXSize", Status: c.statusString(st)}
	}
	buf := make([]byte, n)
	if st := c.ptx(prog, unsafe.Pointer(&buf[0])); st != 0 {
		return "", &InvocationError{Call: "nvrtcGetPTX", Status: c.statusString(st)}
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}

// programLog retrieves the human-readable diagnostic log.
func (c *Compiler) programLog(prog uintptr) (string, error) {
	var n uint64
	if st := c.logSize(prog, &n); st != 0 {
		return "", &InvocationError{Call: "nvrtcGetProgramLogSize", Status: c.statusString(st)}
	}
	if n <= 1 {
		return "", nil
	}
	buf := make([]byte, n)
	if st := c.log(prog, unsafe.Pointer(&buf[0])); st != 0 {
		return "", &InvocationError{Call: "nvrtcGetProgramLog", Status: c.statusString(st)}
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}

// cStrings builds a NUL-terminated char* array for an option list.
func cStrings(ss []string) ([]*byte, [][]byte) {
	bufs := make([][]byte, len(ss))
	ptrs := make([]*byte, len(ss))
	for i, s := range ss {
		bufs[i] = append([]byte(s), 0)
		ptrs[i] = &bufs[i][0]
	}
	return ptrs, bufs
}
