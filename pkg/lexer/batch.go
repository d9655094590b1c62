package lexer

import (
	"fmt"

	"github.com/yaklabco/relex/pkg/language"
)

// FlatToken is one token of a flattened hierarchy.
type FlatToken struct {
	Path      string `json:"path"`
	Depth     int    `json:"depth"`
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Offset    int    `json:"offset"`
	Length    int    `json:"length"`
	Lookahead int    `json:"lookahead"`
	State     int32  `json:"state"`
	Text      string `json:"text"`
}

// String implements fmt.Stringer.
func (f FlatToken) String() string {
	return fmt.Sprintf("%s %s %s@%d+%d la=%d st=%d %q",
		f.Path, f.ID, f.Kind, f.Offset, f.Length, f.Lookahead, f.State, f.Text)
}

// Flatten lists every token of the hierarchy depth first: each token is
// followed by the tokens of its embedded lists. Default embeddings are
// created where missing, so two hierarchies of the same text flatten alike
// no matter how they were built.
func (h *Hierarchy) Flatten() []FlatToken {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lexAllRoot()
	var out []FlatToken
	h.flatten(h.root, &out)
	return out
}

func (h *Hierarchy) flatten(l hostList, out *[]FlatToken) {
	st := l.store()
	for i := range st.count() {
		e := st.at(i)
		las := st.laState(i)
		off := l.base() + st.offset(i)
		*out = append(*out, FlatToken{
			Path:      l.Path().Key(),
			Depth:     l.Path().Depth(),
			ID:        e.tok.id.Name,
			Kind:      e.tok.kind.String(),
			Offset:    off,
			Length:    e.tok.length,
			Lookahead: las.Lookahead,
			State:     int32(las.State),
			Text:      h.text.Slice(off, off+e.tok.length),
		})
		if etl, _ := defaultEmbedding(l, i); etl == nil {
			continue
		}
		for _, etl := range e.embs {
			h.flatten(etl, out)
		}
	}
}

// dumpStore renders the tokens of a store without touching locks.
func dumpStore(path language.Path, st *tokenStore) string {
	var sb []byte
	sb = fmt.Appendf(sb, "%s (%d tokens)\n", path.Key(), st.count())
	for i := range st.count() {
		las := st.laState(i)
		sb = fmt.Appendf(sb, "  [%d] %d %s la=%d st=%d\n", i, st.offset(i), st.at(i).tok, las.Lookahead, las.State)
	}
	return string(sb)
}
