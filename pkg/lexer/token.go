package lexer

import (
	"strconv"

	"github.com/patrickmn/go-cache"

	"github.com/yaklabco/relex/pkg/language"
)

// Kind tells plain tokens apart from the pieces of a joined token.
type Kind uint8

const (
	// KindPlain is an ordinary token held by exactly one list.
	KindPlain Kind = iota

	// KindJoin is a logical token of a joined list whose characters span
	// several embedded sections. It is made of ordered parts.
	KindJoin

	// KindPart is the fragment of a join token that lies in one section.
	KindPart
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "Plain"
	case KindJoin:
		return "Join"
	case KindPart:
		return "Part"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is an immutable lexeme. Tokens do not know their offset; offsets are
// kept by the list slot holding them, which lets flyweights be shared.
type Token struct {
	id        language.TokenID
	length    int
	flyweight bool
	kind      Kind

	// join tokens
	parts []*Token

	// part tokens
	join      *Token
	partIndex int
}

func newToken(id language.TokenID, length int) *Token {
	if length <= 0 {
		raise("new token", "token %s has length %d", id, length)
	}
	return &Token{id: id, length: length}
}

// ID returns the token kind.
func (t *Token) ID() language.TokenID { return t.id }

// Len returns the token length in characters. For a join token this is the
// sum of its part lengths.
func (t *Token) Len() int { return t.length }

// Flyweight reports whether the token is a shared instance.
func (t *Token) Flyweight() bool { return t.flyweight }

// Kind returns whether the token is plain, a join token or a part.
func (t *Token) Kind() Kind { return t.kind }

// Parts returns the parts of a join token, nil otherwise.
func (t *Token) Parts() []*Token {
	if t.kind != KindJoin {
		return nil
	}
	return t.parts
}

// Join returns the join token a part belongs to, nil otherwise.
func (t *Token) Join() *Token {
	if t.kind != KindPart {
		return nil
	}
	return t.join
}

// PartIndex returns the position of a part inside its join token.
func (t *Token) PartIndex() int { return t.partIndex }

// String implements fmt.Stringer.
func (t *Token) String() string {
	s := t.id.String() + "[" + strconv.Itoa(t.length) + "]"
	switch t.kind {
	case KindJoin:
		s += "J" + strconv.Itoa(len(t.parts))
	case KindPart:
		s += "P" + strconv.Itoa(t.partIndex)
	case KindPlain:
		if t.flyweight {
			s += "F"
		}
	}
	return s
}

// materialized returns a list-owned copy of a flyweight token.
func (t *Token) materialized() *Token {
	if !t.flyweight {
		return t
	}
	return &Token{id: t.id, length: t.length}
}

// sameLexeme compares kind and length.
func (t *Token) sameLexeme(o *Token) bool {
	return t.id == o.id && t.length == o.length && t.flyweight == o.flyweight && t.kind == o.kind
}

// newJoinToken splits a logical token of the given lengths into parts.
func newJoinToken(id language.TokenID, partLengths []int) *Token {
	jt := &Token{id: id, kind: KindJoin, parts: make([]*Token, len(partLengths))}
	for i, n := range partLengths {
		if n <= 0 {
			raise("join token", "part %d of %s has length %d", i, id, n)
		}
		jt.parts[i] = &Token{id: id, length: n, kind: KindPart, join: jt, partIndex: i}
		jt.length += n
	}
	return jt
}

// flyweights caches shared tokens by language, kind and text. Entries never
// expire; the set of fixed lexemes of a language is small.
//
//nolint:gochecknoglobals // Process-wide flyweight cache shared by every hierarchy.
var flyweights = cache.New(cache.NoExpiration, 0)

func flyweightToken(lang language.Language, id language.TokenID, text string) *Token {
	key := lang.Name() + "\x00" + strconv.Itoa(id.Ordinal) + "\x00" + text
	if cached, ok := flyweights.Get(key); ok {
		if tok, ok := cached.(*Token); ok {
			return tok
		}
	}
	tok := newToken(id, len(text))
	tok.flyweight = true
	flyweights.SetDefault(key, tok)
	return tok
}
