package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/relex/internal/ui/pretty"
	"github.com/yaklabco/relex/pkg/stress"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	width := opts.Width
	if width <= 0 {
		width = pretty.Width(opts.Writer)
	}
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  width,
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// ReportTree implements Reporter.
func (r *TextReporter) ReportTree(_ context.Context, source string, tree *Tree) error {
	if source != "" {
		fmt.Fprintln(r.bw, r.styles.Bold.Render(source))
	}
	r.writeTree(tree, 0)
	return nil
}

func (r *TextReporter) writeTree(tree *Tree, depth int) {
	path := tree.Path
	if tree.Joined {
		path += " (joined)"
	}
	fmt.Fprint(r.bw, r.styles.FormatListHeader(path, depth, len(tree.Tokens)))
	for _, tok := range tree.Tokens {
		fmt.Fprint(r.bw, r.styles.FormatToken(pretty.TokenLine{
			Index:     tok.Index,
			ID:        tok.ID,
			Offset:    tok.Offset,
			Length:    tok.Length,
			Lookahead: tok.Lookahead,
			State:     tok.State,
			Text:      tok.Text,
			Flyweight: tok.Flyweight,
			Kind:      tok.Kind,
		}, depth, r.width))
		for _, sub := range tok.Embedded {
			r.writeTree(sub, depth+2)
		}
	}
}

// ReportStep implements Reporter.
func (r *TextReporter) ReportStep(_ context.Context, step *Step) error {
	fmt.Fprint(r.bw, r.styles.FormatEditHeader(step.Index, step.Edit.StartOffset, step.Edit.EndOffset,
		step.Edit.NewText, step.AffectedStart, step.AffectedEnd))
	if step.Changes != nil {
		r.writeChange(step.Changes, 0)
	}
	if step.Error != "" {
		fmt.Fprintln(r.bw, "  "+r.styles.Error.Render("error: "+step.Error))
	}
	if step.Mismatch != "" {
		fmt.Fprint(r.bw, r.styles.FormatDiff("batch lexing differs (- batch, + incremental)", step.Mismatch))
	}
	if step.Tree != nil {
		r.writeTree(step.Tree, 1)
	}
	return nil
}

func (r *TextReporter) writeChange(c *ChangeNode, depth int) {
	fmt.Fprint(r.bw, r.styles.FormatChange(pretty.ChangeLine{
		Kind:         c.Kind,
		Path:         c.Path,
		Index:        c.Index,
		Offset:       c.Offset,
		Removed:      c.Removed,
		Added:        c.Added,
		AddedLength:  c.AddedLength,
		BoundsChange: c.BoundsChange,
	}, depth))
	for _, child := range c.Embedded {
		r.writeChange(child, depth+1)
	}
}

// ReportStress implements Reporter.
func (r *TextReporter) ReportStress(_ context.Context, res *stress.Result, lang string) error {
	for _, f := range res.Failures {
		fmt.Fprintln(r.bw, r.styles.Failure.Render(
			fmt.Sprintf("iteration %d step %d (%s)", f.Iteration, f.Step, lang)))
		if f.Err != nil {
			fmt.Fprintln(r.bw, "  "+r.styles.Error.Render("error: "+f.Err.Error()))
		}
		if f.Diff != "" {
			fmt.Fprint(r.bw, r.styles.FormatDiff("batch lexing differs (- batch, + incremental)", f.Diff))
		}
		script, err := f.Script(lang).ToYAML()
		if err != nil {
			return fmt.Errorf("failure script: %w", err)
		}
		fmt.Fprintln(r.bw, r.styles.Dim.Render("reproduce with this replay script:"))
		fmt.Fprintln(r.bw, string(script))
	}
	fmt.Fprint(r.bw, r.styles.FormatStressSummary(res))
	return nil
}

// Flush implements Reporter.
func (r *TextReporter) Flush() error {
	return r.bw.Flush()
}
