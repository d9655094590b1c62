// Package reporter renders token trees, replayed edits and stress results.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/relex/pkg/stress"
)

// Compile-time interface checks.
var (
	_ Reporter = (*TextReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
)

// Reporter formats and writes results. Output may be buffered until Flush.
type Reporter interface {
	// ReportTree writes the token tree of a lexed source.
	ReportTree(ctx context.Context, source string, tree *Tree) error

	// ReportStep writes one replayed edit.
	ReportStep(ctx context.Context, step *Step) error

	// ReportStress writes the outcome of a stress run for lang.
	ReportStress(ctx context.Context, res *stress.Result, lang string) error

	// Flush writes any buffered output.
	Flush() error
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
