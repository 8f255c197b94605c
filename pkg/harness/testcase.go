package harness

import "github.com/ftvkyo/ptx-tests/pkg/ptx"

// Case is the immutable descriptor of one opcode test. Built once at
// registry-construction time and never mutated.
type Case struct {
	Name   string
	Header []string  // program header directives (direct convention)
	Body   string    // opcode fragment with the load placeholder and [name] refs
	Args   []ptx.Arg // buffer binding order; the last entry is the output
	Domain Domain
	Verify VerifyFunc
}

// Output returns the result buffer argument.
func (c *Case) Output() ptx.Arg { return c.Args[len(c.Args)-1] }

// Inputs returns the input buffer arguments in binding order.
func (c *Case) Inputs() []ptx.Arg { return c.Args[:len(c.Args)-1] }
