package harness

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ftvkyo/ptx-tests/pkg/cuda"
	"github.com/ftvkyo/ptx-tests/pkg/ptx"
)

const (
	// defaultBatch is the number of scan indices covered by one launch.
	// Device-level parallelism amortizes per-input overhead; it never
	// spans tests.
	defaultBatch = 1 << 20
	blockSize    = 256
)

// Engine orchestrates one test end to end: generate source, build and
// load, scan the domain, verify, classify. One engine drives the whole
// run on a single host thread.
type Engine struct {
	dev     *cuda.Device
	backend Backend
	log     zerolog.Logger
	batch   uint64
}

// New builds an engine over a shared device session and a selected
// backend.
func New(dev *cuda.Device, backend Backend, log zerolog.Logger) *Engine {
	return &Engine{dev: dev, backend: backend, log: log, batch: defaultBatch}
}

// Run executes one test. The returned error is a fatal fault (driver or
// compiler invocation); a rejection of this test's generated source is
// reported as a Miscompile outcome instead, with zero inputs evaluated.
func (e *Engine) Run(c *Case) (Outcome, error) {
	e.log.Debug().Str("test", c.Name).Str("backend", e.backend.Name()).
		Uint64("domain", c.Domain.Size).Msg("building device program")
	if e.log.GetLevel() <= zerolog.TraceLevel {
		e.log.Trace().Str("test", c.Name).Msg(e.backend.Source(c))
	}

	start := time.Now()
	mod, err := e.backend.Build(e.dev, c)
	if err != nil {
		var cerr *cuda.CompileError
		if errors.As(err, &cerr) {
			e.log.Warn().Str("test", c.Name).Str("status", cerr.Status).
				Msg("compiler rejected generated source")
			if cerr.Log != "" {
				e.log.Warn().Str("test", c.Name).Msg(cerr.Log)
			}
			return Outcome{Kind: Miscompile, Name: c.Name, Log: cerr.Log}, nil
		}
		return Outcome{}, err
	}
	defer mod.Unload()
	e.log.Debug().Str("test", c.Name).Dur("build", time.Since(start)).
		Msg("device program loaded")

	fn, err := mod.Function(ptx.EntryName)
	if err != nil {
		return Outcome{}, err
	}

	// One device buffer and one staging slice per argument, allocated once
	// and rewritten across the whole scan. Small domains fit in a single
	// short launch, so their buffers shrink to match.
	elems := e.batchElems(c.Domain.Size)
	bufs := make([]uint64, len(c.Args))
	host := make([][]byte, len(c.Args))
	for i, a := range c.Args {
		n := elems * uint64(a.Kind.Size())
		host[i] = make([]byte, n)
		d, err := e.dev.Alloc(n)
		if err != nil {
			return Outcome{}, err
		}
		bufs[i] = d
		defer e.dev.Free(d)
	}

	outIdx := len(c.Args) - 1
	outKind := c.Output().Kind
	for base := uint64(0); base < c.Domain.Size; base += e.batch {
		n := c.Domain.Size - base
		if n > e.batch {
			n = e.batch
		}

		for j := uint64(0); j < n; j++ {
			vals := c.Domain.Gen(uint32(base + j))
			for i, v := range vals {
				putBits(host[i], j, v)
			}
		}
		for i, a := range c.Inputs() {
			if err := e.dev.CopyToDevice(bufs[i], host[i][:n*uint64(a.Kind.Size())]); err != nil {
				return Outcome{}, err
			}
		}

		grid := uint32((n + blockSize - 1) / blockSize)
		if err := e.dev.Launch(fn, grid, blockSize, bufs); err != nil {
			return Outcome{}, err
		}
		if err := e.dev.CopyFromDevice(host[outIdx][:n*uint64(outKind.Size())], bufs[outIdx]); err != nil {
			return Outcome{}, err
		}

		for j := uint64(0); j < n; j++ {
			vals := c.Domain.Gen(uint32(base + j))
			got := Value{Kind: outKind, Bits: getBits(host[outIdx], j, outKind.Size())}
			expected, ok := c.Verify(vals, got)
			if !ok {
				// A proven divergence; scanning the rest of the domain
				// adds nothing.
				return Outcome{
					Kind:     Mismatch,
					Name:     c.Name,
					Inputs:   vals,
					Output:   got,
					Expected: expected,
				}, nil
			}
		}
	}
	return Outcome{Kind: Pass, Name: c.Name}, nil
}

// batchElems is the per-buffer element capacity for a domain of the given
// size.
func (e *Engine) batchElems(size uint64) uint64 {
	if size < e.batch {
		return size
	}
	return e.batch
}

func putBits(buf []byte, j uint64, v Value) {
	switch v.Kind.Size() {
	case 2:
		binary.LittleEndian.PutUint16(buf[j*2:], uint16(v.Bits))
	case 4:
		binary.LittleEndian.PutUint32(buf[j*4:], uint32(v.Bits))
	default:
		binary.LittleEndian.PutUint64(buf[j*8:], v.Bits)
	}
}

func getBits(buf []byte, j uint64, size int) uint64 {
	switch size {
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[j*2:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[j*4:]))
	default:
		return binary.LittleEndian.Uint64(buf[j*8:])
	}
}
