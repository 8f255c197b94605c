package ptx

import (
	"fmt"
	"strings"
)

// LoadArgs is the load-arguments placeholder. Each opcode body starts with
// this line; the generator replaces it with whatever the active convention
// needs to make every `[name]` reference in the body dereference the
// current thread's element of that argument's buffer.
const LoadArgs = "<LOAD_ARGS>"

// EntryName is the entry point resolved after a module is loaded. Both
// conventions emit it.
const EntryName = "run"

// DefaultHeader returns the program header directives shared by most tests.
// Tests carry their own copy so individual definitions can raise the
// target architecture.
func DefaultHeader() []string {
	return []string{".version 6.5", ".target sm_60", ".address_size 64"}
}

// Direct renders a complete PTX program for the driver's own loader. Every
// argument is a pointer-to-value passed as an opaque 64-bit address
// parameter, in declared order. The placeholder expands to loads that
// leave each argument's per-thread element address in a register named
// after the argument, so the body's bracketed references work unchanged.
func Direct(header []string, body string, args []Arg) string {
	var b strings.Builder
	for _, h := range header {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(".visible .entry " + EntryName + "(\n")
	for i, a := range args {
		sep := ","
		if i == len(args)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "\t.param .u64 %s_ptr%s\n", a.Name, sep)
	}
	b.WriteString(")\n{\n")

	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == LoadArgs {
			writeDirectLoads(&b, args)
			continue
		}
		if line == "" {
			continue
		}
		b.WriteByte('\t')
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("\tret;\n}\n")
	return b.String()
}

// writeDirectLoads emits the global thread id computation and, per
// argument, a parameter load plus byte-offset so the register holds the
// address of this thread's element.
func writeDirectLoads(b *strings.Builder, args []Arg) {
	b.WriteString("\t.reg .u32 gen_tid;\n")
	b.WriteString("\t.reg .u32 gen_ntid;\n")
	b.WriteString("\t.reg .u32 gen_ctaid;\n")
	b.WriteString("\t.reg .u32 gen_gid;\n")
	b.WriteString("\t.reg .u64 gen_gid_wide;\n")
	for _, a := range args {
		fmt.Fprintf(b, "\t.reg .u64 %s;\n", a.Name)
	}
	b.WriteString("\tmov.u32 gen_tid, %tid.x;\n")
	b.WriteString("\tmov.u32 gen_ntid, %ntid.x;\n")
	b.WriteString("\tmov.u32 gen_ctaid, %ctaid.x;\n")
	b.WriteString("\tmad.lo.u32 gen_gid, gen_ctaid, gen_ntid, gen_tid;\n")
	b.WriteString("\tcvt.u64.u32 gen_gid_wide, gen_gid;\n")
	for _, a := range args {
		fmt.Fprintf(b, "\tld.param.u64 %s, [%s_ptr];\n", a.Name, a.Name)
		fmt.Fprintf(b, "\tmad.lo.u64 %s, gen_gid_wide, %d, %s;\n", a.Name, a.Kind.Size(), a.Name)
	}
}

// Compiled renders a host-callable CUDA kernel whose body is a single
// inline-assembly statement embedding the same opcode body. The placeholder
// becomes register moves binding each parameter's per-thread address to a
// positional operand register argN; bracketed argument references are
// rewritten to those registers. Every literal % in the body is doubled so
// the embedding compiler's own operand substitution does not misread it,
// and each line is wrapped as an individual string literal as the inline
// assembly syntax requires.
func Compiled(body string, args []Arg) string {
	var b strings.Builder

	b.WriteString(`extern "C" __global__ void ` + EntryName + "(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "void *%s_mem", a.Name)
	}
	b.WriteString(")\n{\n")

	b.WriteString("    unsigned long long gen_gid = (unsigned long long)blockIdx.x * blockDim.x + threadIdx.x;\n")
	for _, a := range args {
		fmt.Fprintf(&b, "    void *%s = (char *)%s_mem + gen_gid * %dULL;\n", a.Name, a.Name, a.Kind.Size())
	}

	b.WriteString("    asm volatile(\n")
	b.WriteString(asmLine("{"))
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == LoadArgs {
			for i := range args {
				b.WriteString(asmLine(fmt.Sprintf(".reg .u64 arg%d;", i)))
			}
			for i := range args {
				b.WriteString(asmLine(fmt.Sprintf("mov.u64 arg%d, %%%d;", i, i)))
			}
			continue
		}
		if line == "" {
			continue
		}
		b.WriteString(asmLine(rewriteArgRefs(escapePercent(line), args)))
	}
	b.WriteString(asmLine("}"))

	b.WriteString("        :\n        : ")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "\"l\"(%s)", a.Name)
	}
	b.WriteString("\n        : \"memory\");\n}\n")
	return b.String()
}

// asmLine wraps one PTX line as an inline-assembly string literal.
func asmLine(line string) string {
	return "        \"" + line + "\\n\\t\"\n"
}

// escapePercent doubles every literal % so special-register references
// like %tid.x survive the embedding compiler's operand substitution.
func escapePercent(line string) string {
	return strings.ReplaceAll(line, "%", "%%")
}

// rewriteArgRefs maps bracketed argument-name references to the positional
// operand registers bound by the placeholder expansion.
func rewriteArgRefs(line string, args []Arg) string {
	for i, a := range args {
		line = strings.ReplaceAll(line, "["+a.Name+"]", fmt.Sprintf("[arg%d]", i))
	}
	return line
}
