package reporter

import (
	"fmt"

	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/lexer"
	"github.com/yaklabco/relex/pkg/stress"
)

// Tree is a token list together with the lists embedded in its tokens.
type Tree struct {
	Path   string      `json:"path"`
	Depth  int         `json:"depth"`
	Joined bool        `json:"joined,omitempty"`
	Tokens []TreeToken `json:"tokens"`
}

// TreeToken is one token of a Tree.
type TreeToken struct {
	Index     int     `json:"index"`
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Offset    int     `json:"offset"`
	Length    int     `json:"length"`
	Lookahead int     `json:"lookahead"`
	State     int32   `json:"state"`
	Text      string  `json:"text"`
	Flyweight bool    `json:"flyweight,omitempty"`
	Embedded  []*Tree `json:"embedded,omitempty"`
}

// hostingList is a list whose tokens can host embedded lists.
type hostingList interface {
	lexer.TokenList
	Embeddings(i int) []*lexer.EmbeddedList
}

// BuildTree collects list and, recursively, every list embedded in it.
// Default embeddings are created on the way.
func BuildTree(list lexer.TokenList) (*Tree, error) {
	tree := &Tree{Path: list.Path().Key(), Depth: list.Path().Depth()}
	if etl, ok := list.(*lexer.EmbeddedList); ok {
		tree.Joined = etl.Joined()
	}
	host, _ := list.(hostingList)

	n := list.Len()
	tree.Tokens = make([]TreeToken, 0, n)
	for i := range n {
		tok := list.Token(i)
		las := list.LAState(i)
		text, err := list.Text(i)
		if err != nil {
			return nil, fmt.Errorf("token %d of %s: %w", i, tree.Path, err)
		}
		tt := TreeToken{
			Index:     i,
			ID:        tok.ID().Name,
			Kind:      tok.Kind().String(),
			Offset:    list.Offset(i),
			Length:    tok.Len(),
			Lookahead: las.Lookahead,
			State:     int32(las.State),
			Text:      text,
			Flyweight: tok.Flyweight(),
		}
		if host != nil && tok.Kind() != lexer.KindPart {
			if _, err := list.Embedded(i); err != nil {
				return nil, fmt.Errorf("embedding of token %d of %s: %w", i, tree.Path, err)
			}
			for _, etl := range host.Embeddings(i) {
				sub, err := BuildTree(etl)
				if err != nil {
					return nil, err
				}
				tt.Embedded = append(tt.Embedded, sub)
			}
		}
		tree.Tokens = append(tree.Tokens, tt)
	}
	return tree, nil
}

// ChangeNode mirrors a lexer.Change for reporting.
type ChangeNode struct {
	Kind         string        `json:"kind"`
	Path         string        `json:"path"`
	Index        int           `json:"index"`
	Offset       int           `json:"offset"`
	Removed      int           `json:"removed"`
	Added        []string      `json:"added,omitempty"`
	AddedLength  int           `json:"addedLength"`
	BoundsChange bool          `json:"boundsChange,omitempty"`
	Embedded     []*ChangeNode `json:"embedded,omitempty"`
}

// BuildChanges converts a change tree. The texts of added tokens are read
// from the lists, so it must run before the next update.
func BuildChanges(c *lexer.Change) *ChangeNode {
	node := &ChangeNode{
		Kind:         c.Kind.String(),
		Path:         c.Path.Key(),
		Index:        c.Index,
		Offset:       c.Offset,
		Removed:      c.RemovedCount(),
		AddedLength:  c.AddedLength,
		BoundsChange: c.BoundsChange,
	}
	for i, tok := range c.Added {
		text := "<" + tok.ID().Name + ">"
		if c.List != nil {
			if s, err := c.List.Text(c.Index + i); err == nil {
				text = s
			}
		}
		node.Added = append(node.Added, text)
	}
	for _, child := range c.Embedded {
		node.Embedded = append(node.Embedded, BuildChanges(child))
	}
	return node
}

// Step is one replayed edit.
type Step struct {
	Index         int               `json:"step"`
	Edit          document.TextEdit `json:"edit"`
	AffectedStart int               `json:"affectedStart"`
	AffectedEnd   int               `json:"affectedEnd"`
	Changes       *ChangeNode       `json:"changes,omitempty"`
	Tree          *Tree             `json:"tree,omitempty"`
	Mismatch      string            `json:"mismatch,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// NewStep describes the edit at index and the event it produced.
func NewStep(index int, edit document.TextEdit, ev *lexer.Event) *Step {
	step := &Step{Index: index, Edit: edit}
	if ev == nil {
		return step
	}
	step.AffectedStart, step.AffectedEnd = ev.AffectedRange()
	if ev.Root != nil {
		step.Changes = BuildChanges(ev.Root)
	}
	return step
}

// Failed reports whether the step found a problem.
func (s *Step) Failed() bool {
	return s.Mismatch != "" || s.Error != ""
}

// StressReport is the serializable outcome of a stress run.
type StressReport struct {
	Seed       uint64          `json:"seed"`
	Language   string          `json:"language"`
	Iterations int             `json:"iterations"`
	Edits      int             `json:"edits"`
	Tokens     int             `json:"tokens"`
	DurationMS int64           `json:"durationMs"`
	Passed     bool            `json:"passed"`
	Failures   []StressFailure `json:"failures,omitempty"`
}

// StressFailure is one failing document with a script that reproduces it.
type StressFailure struct {
	Iteration int    `json:"iteration"`
	Step      int    `json:"step"`
	Error     string `json:"error,omitempty"`
	Diff      string `json:"diff,omitempty"`
	Script    string `json:"script"`
}

// NewStressReport converts a stress result.
func NewStressReport(res *stress.Result, lang string) (*StressReport, error) {
	report := &StressReport{
		Seed:       res.Seed,
		Language:   lang,
		Iterations: res.Iterations,
		Edits:      res.Edits,
		Tokens:     res.Tokens,
		DurationMS: res.Duration.Milliseconds(),
		Passed:     res.Passed(),
	}
	for _, f := range res.Failures {
		script, err := f.Script(lang).ToYAML()
		if err != nil {
			return nil, err
		}
		sf := StressFailure{Iteration: f.Iteration, Step: f.Step, Diff: f.Diff, Script: string(script)}
		if f.Err != nil {
			sf.Error = f.Err.Error()
		}
		report.Failures = append(report.Failures, sf)
	}
	return report, nil
}
