// Package result serializes finished runs into a machine-readable report.
package result

import (
	"encoding/json"
	"io"

	"github.com/ftvkyo/ptx-tests/pkg/harness"
)

// Record is one test's outcome in the report file.
type Record struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Input    string `json:"input,omitempty"`
	Output   string `json:"output,omitempty"`
	Expected string `json:"expected,omitempty"`
}

// FromOutcome converts an engine outcome into a report record.
func FromOutcome(o harness.Outcome, backend string) Record {
	rec := Record{
		Name:    o.Name,
		Status:  o.Kind.String(),
		Backend: backend,
	}
	if o.Kind == harness.Mismatch {
		rec.Input = harness.FormatInputs(o.Inputs)
		rec.Output = o.Output.String()
		rec.Expected = o.Expected.String()
	}
	return rec
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
