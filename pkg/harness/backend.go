package harness

import (
	"errors"
	"fmt"

	"github.com/ftvkyo/ptx-tests/pkg/cuda"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

// Backend turns a test's generated source into a loaded device module.
// The variant is an operator decision, selected once from the command
// line; everything downstream of a loaded module is backend-agnostic.
type Backend interface {
	Name() string
	Source(c *Case) string
	Build(dev *cuda.Device, c *Case) (*cuda.Module, error)
}

// DirectBackend hands generated PTX straight to the driver's own
// loader/JIT.
type DirectBackend struct{}

func (DirectBackend) Name() string { return "direct" }

func (DirectBackend) Source(c *Case) string {
	return ptx.Direct(c.Header, c.Body, c.Args)
}

func (b DirectBackend) Build(dev *cuda.Device, c *Case) (*cuda.Module, error) {
	mod, err := dev.LoadModule(b.Source(c))
	if err != nil {
		return nil, loadFault(err)
	}
	return mod, nil
}

// loadFault downgrades a loader rejection of one test's generated program
// to that test's compile fault. Only the load call carries generated
// source; every later driver call stays fatal.
func loadFault(err error) error {
	var derr *cuda.DriverError
	if !errors.As(err, &derr) {
		return err
	}
	status := derr.Desc
	if status == "" {
		status = fmt.Sprintf("code %d", derr.Code)
	}
	return &cuda.CompileError{Status: status, Log: derr.Error()}
}

// CompiledBackend routes generated CUDA source through the runtime
// compiler first, then hands the compiled image to the same driver loader
// the direct backend uses.
type CompiledBackend struct {
	Compiler *cuda.Compiler
	Arch     string // e.g. "compute_60"
}

func (CompiledBackend) Name() string { return "compiled" }

func (CompiledBackend) Source(c *Case) string {
	return ptx.Compiled(c.Body, c.Args)
}

func (b CompiledBackend) Build(dev *cuda.Device, c *Case) (*cuda.Module, error) {
	image, err := b.Compiler.Compile(b.Source(c), []string{"--gpu-architecture=" + b.Arch})
	if err != nil {
		return nil, err
	}
	mod, err := dev.LoadModule(image)
	if err != nil {
		return nil, loadFault(err)
	}
	return mod, nil
}
