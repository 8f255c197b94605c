// Package ptx renders opcode-body templates into complete device programs
// for the two embedding conventions: raw PTX handed to the driver's own
// loader, and CUDA C with inline assembly handed to the runtime compiler.
package ptx

// Kind tags a PTX scalar type: width, signedness, and whether it is a
// floating-point type. The closed set below drives buffer sizing, program
// generation, and the host-side reference rules (sign extension, shift
// saturation) chosen once at test-construction time.
type Kind uint8

const (
	B16 Kind = iota
	B32
	B64
	U16
	U32
	U64
	S16
	S32
	S64
	F16
	F32

	kindCount // sentinel
)

// kindInfo is the per-Kind metadata table.
var kindInfo = [kindCount]struct {
	name   string
	size   int
	signed bool
	float  bool
}{
	B16: {"b16", 2, false, false},
	B32: {"b32", 4, false, false},
	B64: {"b64", 8, false, false},
	U16: {"u16", 2, false, false},
	U32: {"u32", 4, false, false},
	U64: {"u64", 8, false, false},
	S16: {"s16", 2, true, false},
	S32: {"s32", 4, true, false},
	S64: {"s64", 8, true, false},
	F16: {"f16", 2, false, true},
	F32: {"f32", 4, false, true},
}

// String returns the PTX type suffix, e.g. "u32".
func (k Kind) String() string { return kindInfo[k].name }

// Size returns the width in bytes.
func (k Kind) Size() int { return kindInfo[k].size }

// Signed reports whether the kind is a signed integer type.
func (k Kind) Signed() bool { return kindInfo[k].signed }

// Float reports whether the kind is a floating-point type.
func (k Kind) Float() bool { return kindInfo[k].float }

// Bits returns the width in bits.
func (k Kind) Bits() int { return kindInfo[k].size * 8 }

// Arg is one entry-point buffer argument: its name as referenced by the
// opcode body, and the scalar kind stored in the buffer.
type Arg struct {
	Name string
	Kind Kind
}
