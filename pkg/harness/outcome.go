package harness

import "fmt"

// OutcomeKind classifies one test's terminal state.
type OutcomeKind uint8

const (
	Pass OutcomeKind = iota
	Mismatch
	Miscompile
)

func (k OutcomeKind) String() string {
	switch k {
	case Pass:
		return "ok"
	case Mismatch:
		return "mismatch"
	default:
		return "miscompile"
	}
}

// Outcome is one test's result. Mismatch carries the full diagnostic
// triple; Miscompile carries the surfaced compiler log.
type Outcome struct {
	Kind     OutcomeKind
	Name     string
	Inputs   []Value
	Output   Value
	Expected Value
	Log      string
}

// Failed reports whether the outcome counts toward the process exit code.
func (o Outcome) Failed() bool { return o.Kind != Pass }

// String renders the single user-visible result line.
func (o Outcome) String() string {
	switch o.Kind {
	case Pass:
		return o.Name + ": OK"
	case Miscompile:
		return o.Name + ": FAIL: Compilation mismatch"
	default:
		return fmt.Sprintf("%s: FAIL: Input %s, computed on GPU %s, computed on CPU %s",
			o.Name, FormatInputs(o.Inputs), o.Output, o.Expected)
	}
}
