// Package cuda binds the vendor driver and the runtime compiler as typed
// capability objects. Every required entry point is resolved once when the
// library is opened; every call reports failure as a classified error so
// the fatal-vs-recoverable policy lives above this layer.
package cuda

import "fmt"

// DriverError is a driver call reporting a nonzero status. Always fatal to
// the run: a failing driver invalidates every subsequent result.
type DriverError struct {
	Call string
	Code uint32
	Desc string
}

func (e *DriverError) Error() string {
	if e.Desc != "" {
		return fmt.Sprintf("driver: %s failed: %s (%d)", e.Call, e.Desc, e.Code)
	}
	return fmt.Sprintf("driver: %s failed with code %d", e.Call, e.Code)
}

// InvocationError means the compiler itself could not be invoked — a
// broken host environment, not a test result. Fatal to the run.
type InvocationError struct {
	Call   string
	Status string
	Log    string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("compiler: %s failed: %s", e.Call, e.Status)
}

// CompileError is the compiler rejecting one test's generated source. The
// caller downgrades it to that test's failure and continues.
type CompileError struct {
	Status string
	Log    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation rejected: %s", e.Status)
}

// ResolveError is a required entry point missing from the opened library.
// Fatal at startup.
type ResolveError struct {
	Library string
	Symbol  string
	Err     error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: cannot resolve %s: %v", e.Library, e.Symbol, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
