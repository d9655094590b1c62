package lexer

import "github.com/yaklabco/relex/pkg/language"

// frozenToken is a token detached from any live list.
type frozenToken struct {
	tok    *Token
	offset int
	las    LAState
}

// RemovedList is an immutable list of the tokens an update evicted.
// Offsets are in the coordinates of the owning list before the edit; for the
// top level list these are document offsets. The list has no backing text.
type RemovedList struct {
	path   language.Path
	tokens []frozenToken
}

func newRemovedList(path language.Path, tokens []frozenToken) *RemovedList {
	return &RemovedList{path: path, tokens: tokens}
}

// Path implements TokenList.
func (r *RemovedList) Path() language.Path { return r.path }

// Len implements TokenList.
func (r *RemovedList) Len() int { return len(r.tokens) }

// Token implements TokenList.
func (r *RemovedList) Token(i int) *Token { return r.tokens[i].tok }

// Offset implements TokenList.
func (r *RemovedList) Offset(i int) int { return r.tokens[i].offset }

// LAState implements TokenList.
func (r *RemovedList) LAState(i int) LAState { return r.tokens[i].las }

// Text always fails: removed tokens keep no characters.
func (r *RemovedList) Text(int) (string, error) {
	return "", unsupported("removed list text")
}

// Embedded always fails: removed tokens cannot host embeddings.
func (r *RemovedList) Embedded(int) (*EmbeddedList, error) {
	return nil, unsupported("removed list embedding")
}
