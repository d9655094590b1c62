package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/relex/pkg/stress"
)

// JSONTree is the JSON document written for a lexed source.
type JSONTree struct {
	Source string `json:"source,omitempty"`
	Tree   *Tree  `json:"tree"`
}

// JSONReporter writes one JSON document per reported value.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
	enc  *json.Encoder
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	bw := bufio.NewWriterSize(opts.Writer, bufWriterSize)
	enc := json.NewEncoder(bw)
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	return &JSONReporter{opts: opts, bw: bw, enc: enc}
}

// ReportTree implements Reporter.
func (r *JSONReporter) ReportTree(_ context.Context, source string, tree *Tree) error {
	return r.encode(JSONTree{Source: source, Tree: tree})
}

// ReportStep implements Reporter.
func (r *JSONReporter) ReportStep(_ context.Context, step *Step) error {
	return r.encode(step)
}

// ReportStress implements Reporter.
func (r *JSONReporter) ReportStress(_ context.Context, res *stress.Result, lang string) error {
	report, err := NewStressReport(res, lang)
	if err != nil {
		return fmt.Errorf("stress report: %w", err)
	}
	return r.encode(report)
}

func (r *JSONReporter) encode(v any) error {
	if err := r.enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// Flush implements Reporter.
func (r *JSONReporter) Flush() error {
	return r.bw.Flush()
}
