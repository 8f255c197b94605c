package cuda

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Driver is the capability surface of the vendor driver library under
// test. All entry points are resolved when Open returns; a missing symbol
// is a startup fault, never a mid-run panic.
type Driver struct {
	path string

	cuInit              func(flags uint32) uint32
	cuDeviceGet         func(dev *int32, ordinal int32) uint32
	cuCtxCreate         func(ctx *uintptr, flags uint32, dev int32) uint32
	cuCtxDestroy        func(ctx uintptr) uint32
	cuModuleLoadData    func(mod *uintptr, image unsafe.Pointer) uint32
	cuModuleUnload      func(mod uintptr) uint32
	cuModuleGetFunction func(fn *uintptr, mod uintptr, name string) uint32
	cuMemAlloc          func(dptr *uint64, n uint64) uint32
	cuMemFree           func(dptr uint64) uint32
	cuMemcpyHtoD        func(dst uint64, src unsafe.Pointer, n uint64) uint32
	cuMemcpyDtoH        func(dst unsafe.Pointer, src uint64, n uint64) uint32
	cuLaunchKernel      func(fn uintptr, gx, gy, gz, bx, by, bz, shared uint32,
		stream uintptr, params unsafe.Pointer, extra unsafe.Pointer) uint32
	cuGetErrorString func(code uint32, str *uintptr) uint32
}

// Open loads the driver library and resolves every required entry point.
func Open(path string) (*Driver, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("driver: open %s: %w", path, err)
	}
	d := &Driver{path: path}
	for _, sym := range []struct {
		name string
		fptr any
	}{
		{"cuInit", &d.cuInit},
		{"cuDeviceGet", &d.cuDeviceGet},
		{"cuCtxCreate_v2", &d.cuCtxCreate},
		{"cuCtxDestroy_v2", &d.cuCtxDestroy},
		{"cuModuleLoadData", &d.cuModuleLoadData},
		{"cuModuleUnload", &d.cuModuleUnload},
		{"cuModuleGetFunction", &d.cuModuleGetFunction},
		{"cuMemAlloc_v2", &d.cuMemAlloc},
		{"cuMemFree_v2", &d.cuMemFree},
		{"cuMemcpyHtoD_v2", &d.cuMemcpyHtoD},
		{"cuMemcpyDtoH_v2", &d.cuMemcpyDtoH},
		{"cuLaunchKernel", &d.cuLaunchKernel},
		{"cuGetErrorString", &d.cuGetErrorString},
	} {
		addr, err := purego.Dlsym(lib, sym.name)
		if err != nil {
			return nil, &ResolveError{Library: path, Symbol: sym.name, Err: err}
		}
		purego.RegisterFunc(sym.fptr, addr)
	}
	return d, nil
}

// check classifies a driver status code.
func (d *Driver) check(call string, code uint32) error {
	if code == 0 {
		return nil
	}
	var p uintptr
	desc := ""
	if d.cuGetErrorString(code, &p) == 0 && p != 0 {
		desc = goString(p)
	}
	return &DriverError{Call: call, Code: code, Desc: desc}
}

// Device is one long-lived driver session. Created once per run, shared
// read-only by every test, destroyed at process end.
type Device struct {
	drv *Driver
	ctx uintptr
}

// NewDevice initializes the driver and creates the session context on
// device ordinal 0.
func (d *Driver) NewDevice() (*Device, error) {
	if err := d.check("cuInit", d.cuInit(0)); err != nil {
		return nil, err
	}
	var dev int32
	if err := d.check("cuDeviceGet", d.cuDeviceGet(&dev, 0)); err != nil {
		return nil, err
	}
	var ctx uintptr
	if err := d.check("cuCtxCreate_v2", d.cuCtxCreate(&ctx, 0, dev)); err != nil {
		return nil, err
	}
	return &Device{drv: d, ctx: ctx}, nil
}

// Close destroys the session context. Best effort; only called at process
// end.
func (dev *Device) Close() error {
	return dev.drv.check("cuCtxDestroy_v2", dev.drv.cuCtxDestroy(dev.ctx))
}

// Module is an opaque loaded device program.
type Module struct {
	dev    *Device
	handle uintptr
}

// LoadModule hands a program image (PTX text) to the driver's loader/JIT.
func (dev *Device) LoadModule(image string) (*Module, error) {
	// The loader expects a NUL-terminated image.
	buf := append([]byte(image), 0)
	var h uintptr
	code := dev.drv.cuModuleLoadData(&h, unsafe.Pointer(&buf[0]))
	runtime.KeepAlive(buf)
	if err := dev.drv.check("cuModuleLoadData", code); err != nil {
		return nil, err
	}
	return &Module{dev: dev, handle: h}, nil
}

// Function resolves an entry point by name.
func (m *Module) Function(name string) (uintptr, error) {
	var fn uintptr
	if err := m.dev.drv.check("cuModuleGetFunction",
		m.dev.drv.cuModuleGetFunction(&fn, m.handle, name)); err != nil {
		return 0, err
	}
	return fn, nil
}

// Unload releases the module. Called before the next test's program is
// built.
func (m *Module) Unload() error {
	return m.dev.drv.check("cuModuleUnload", m.dev.drv.cuModuleUnload(m.handle))
}

// Alloc reserves n bytes of linear device memory.
func (dev *Device) Alloc(n uint64) (uint64, error) {
	var dptr uint64
	if err := dev.drv.check("cuMemAlloc_v2", dev.drv.cuMemAlloc(&dptr, n)); err != nil {
		return 0, err
	}
	return dptr, nil
}

// Free releases device memory.
func (dev *Device) Free(dptr uint64) error {
	return dev.drv.check("cuMemFree_v2", dev.drv.cuMemFree(dptr))
}

// CopyToDevice copies len(src) bytes host to device.
func (dev *Device) CopyToDevice(dst uint64, src []byte) error {
	err := dev.drv.check("cuMemcpyHtoD_v2",
		dev.drv.cuMemcpyHtoD(dst, unsafe.Pointer(&src[0]), uint64(len(src))))
	runtime.KeepAlive(src)
	return err
}

// CopyFromDevice copies len(dst) bytes device to host. Blocking, so the
// result is valid on return.
func (dev *Device) CopyFromDevice(dst []byte, src uint64) error {
	err := dev.drv.check("cuMemcpyDtoH_v2",
		dev.drv.cuMemcpyDtoH(unsafe.Pointer(&dst[0]), src, uint64(len(dst))))
	runtime.KeepAlive(dst)
	return err
}

// Launch runs an entry point over grid×block threads with one device
// pointer bound per parameter, and waits for completion via the blocking
// copies that follow it.
func (dev *Device) Launch(fn uintptr, grid, block uint32, params []uint64) error {
	ptrs := make([]unsafe.Pointer, len(params))
	for i := range params {
		ptrs[i] = unsafe.Pointer(&params[i])
	}
	err := dev.drv.check("cuLaunchKernel",
		dev.drv.cuLaunchKernel(fn, grid, 1, 1, block, 1, 1, 0, 0,
			unsafe.Pointer(&ptrs[0]), nil))
	runtime.KeepAlive(params)
	runtime.KeepAlive(ptrs)
	return err
}

// goString reads a NUL-terminated C string.
func goString(p uintptr) string {
	var out []byte
	for i := uintptr(0); ; i++ {
		c := *(*byte)(unsafe.Pointer(p + i)) //nolint:govet // FFI pointer walk
		if c == 0 {
			return string(out)
		}
		out = append(out, c)
	}
}
