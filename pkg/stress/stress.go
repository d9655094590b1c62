// Package stress runs randomized differential tests of incremental lexing:
// random documents receive random edits and after every edit the maintained
// token hierarchy must equal a fresh lex of the text.
package stress

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/language"
	"github.com/yaklabco/relex/pkg/lexer"
)

// ErrNoAlphabet is returned when Options.Alphabet is empty.
var ErrNoAlphabet = errors.New("stress alphabet is empty")

// Options configures a stress run.
type Options struct {
	// Seed makes the run reproducible. Zero picks a random seed.
	Seed uint64

	// Iterations is the number of random documents.
	Iterations int

	// Steps is the number of edits applied to each document.
	Steps int

	// MaxEditLength bounds the characters one edit removes or inserts.
	MaxEditLength int

	// MaxDocumentLength bounds the length of generated documents.
	MaxDocumentLength int

	// Alphabet holds the characters random text is drawn from.
	Alphabet string

	// Language is the root language.
	Language language.Language

	// Lazy, CheckInvariants and Diagnostics configure every hierarchy.
	Lazy            bool
	CheckInvariants bool
	Diagnostics     lexer.Diagnostics

	// FailFast stops the run at the first failure.
	FailFast bool

	// Progress, when set, is called after every iteration.
	Progress func(done int)
}

// Failure describes one document whose incremental result diverged.
type Failure struct {
	Iteration int
	Step      int

	// Initial is the generated document; Edits are the edits applied to it
	// up to and including the failing one.
	Initial string
	Edits   []document.TextEdit

	// Text is the document after the failing edit.
	Text string

	// Err is set when the update itself failed.
	Err error

	// Diff is the token diff between a fresh lex and the incremental result.
	Diff string
}

// Script returns an edit script that reproduces the failure.
func (f *Failure) Script(lang string) *document.Script {
	initial := f.Initial
	return &document.Script{Language: lang, Text: &initial, Edits: f.Edits}
}

// Error implements error.
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("iteration %d step %d: update failed: %v", f.Iteration, f.Step, f.Err)
	}
	return fmt.Sprintf("iteration %d step %d: incremental tokens differ from a fresh lex", f.Iteration, f.Step)
}

// Unwrap returns the update error, if any.
func (f *Failure) Unwrap() error { return f.Err }

// Result summarizes a stress run.
type Result struct {
	Seed       uint64
	Iterations int
	Edits      int
	Tokens     int
	Failures   []*Failure
	Duration   time.Duration
}

// Passed reports whether no failure was found.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Run executes the stress test. It returns early with ctx's error when ctx
// is cancelled; the partial result is still returned.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Alphabet == "" {
		return nil, ErrNoAlphabet
	}
	if opts.Language == nil {
		return nil, errors.New("stress language is not set")
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}

	g := &generator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		alphabet: []rune(opts.Alphabet),
		maxEdit:  max(opts.MaxEditLength, 1),
	}
	result := &Result{Seed: seed}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	for it := range opts.Iterations {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("stress run: %w", err)
		}
		f := runDocument(g, opts, it, result)
		result.Iterations++
		if opts.Progress != nil {
			opts.Progress(result.Iterations)
		}
		if f != nil {
			result.Failures = append(result.Failures, f)
			if opts.FailFast {
				break
			}
		}
	}
	return result, nil
}

// runDocument edits one random document and returns its first failure.
func runDocument(g *generator, opts Options, iteration int, result *Result) *Failure {
	initial := g.text(g.rng.IntN(max(opts.MaxDocumentLength, 0) + 1))
	doc := document.New(initial)
	h := lexer.New(doc, opts.Language, lexer.Options{
		Lazy:            opts.Lazy,
		CheckInvariants: opts.CheckInvariants,
		Diagnostics:     opts.Diagnostics,
	})
	if !opts.Lazy {
		h.Flatten()
	}

	var edits []document.TextEdit
	for step := range opts.Steps {
		edit := g.edit(doc.Len())
		edits = append(edits, edit)
		result.Edits++

		fail := func(err error, diff string) *Failure {
			return &Failure{
				Iteration: iteration,
				Step:      step,
				Initial:   initial,
				Edits:     edits,
				Text:      doc.String(),
				Err:       err,
				Diff:      diff,
			}
		}

		if _, err := h.Edit(func() (lexer.Modification, error) { return doc.Apply(edit) }); err != nil {
			return fail(err, "")
		}
		got := h.Flatten()
		result.Tokens += len(got)
		if diff := Compare(lexer.Lex(doc.String(), opts.Language).Flatten(), got); diff != "" {
			return fail(nil, diff)
		}
	}
	return nil
}

type generator struct {
	rng      *rand.Rand
	alphabet []rune
	maxEdit  int
}

func (g *generator) text(n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = g.alphabet[g.rng.IntN(len(g.alphabet))]
	}
	return string(out)
}

// edit picks a replacement of a text of length n: an insertion, a deletion
// or both, each at most maxEdit long.
func (g *generator) edit(n int) document.TextEdit {
	start := g.rng.IntN(n + 1)
	end := start
	if n > start && g.rng.IntN(3) > 0 {
		end = start + 1 + g.rng.IntN(min(g.maxEdit, n-start))
	}
	insert := ""
	if end == start || g.rng.IntN(2) == 0 {
		insert = g.text(1 + g.rng.IntN(g.maxEdit))
	}
	return document.TextEdit{StartOffset: start, EndOffset: end, NewText: insert}
}
