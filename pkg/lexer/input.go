package lexer

import (
	"github.com/yaklabco/relex/pkg/language"
)

// lexed is one token produced by a lexer input operation.
type lexed struct {
	tok *Token
	las LAState
}

// inputOperation feeds a scanner from a text in list coordinates and turns
// what it recognizes into tokens. It implements language.Input.
type inputOperation struct {
	text  Text
	lang  language.Language
	lexer language.Lexer

	tokenStart int
	readOffset int
	maxRead    int

	// index is the list index the next token will get.
	index int

	// joined, when set, splits tokens at section boundaries.
	joined *joinedText

	released bool
}

func newInputOperation(text Text, lang language.Language, index, offset int, state language.State) *inputOperation {
	op := &inputOperation{
		text:       text,
		lang:       lang,
		tokenStart: offset,
		readOffset: offset,
		maxRead:    offset,
		index:      index,
	}
	op.lexer = lang.NewLexer(op, state)
	return op
}

// newJoinedInputOperation lexes across the sections of a joined text,
// producing join tokens for lexemes that span sections.
func newJoinedInputOperation(text *joinedText, lang language.Language, index, offset int, state language.State) *inputOperation {
	op := newInputOperation(text, lang, index, offset, state)
	op.joined = text
	return op
}

// Read implements language.Input.
func (op *inputOperation) Read() int {
	off := op.readOffset
	op.readOffset++
	op.maxRead = max(op.maxRead, op.readOffset)
	if off >= op.text.Len() {
		return language.EOF
	}
	return int(op.text.ByteAt(off))
}

// Backup implements language.Input.
func (op *inputOperation) Backup(n int) {
	if n < 0 || n > op.readOffset-op.tokenStart {
		raise("lexer input", "%s lexer backed up %d of %d read characters",
			op.lang.Name(), n, op.readOffset-op.tokenStart)
	}
	op.readOffset -= n
}

// ReadLength implements language.Input.
func (op *inputOperation) ReadLength() int {
	return op.readOffset - op.tokenStart
}

// ReadText implements language.Input.
func (op *inputOperation) ReadText() string {
	return op.text.Slice(op.tokenStart, min(op.readOffset, op.text.Len()))
}

// offset returns where the next token will start.
func (op *inputOperation) offset() int { return op.tokenStart }

// state returns the lexer state after the last token.
func (op *inputOperation) state() language.State { return op.lexer.State() }

// next returns the next token, or false at the end of the input.
func (op *inputOperation) next() (lexed, bool) {
	if op.released {
		raise("lexer input", "read from a released input operation")
	}
	lx, ok := op.lexer.NextToken()
	length := op.readOffset - op.tokenStart
	if !ok {
		if op.tokenStart < op.text.Len() {
			raise("lexer input", "%s lexer stopped at %d before end of input %d",
				op.lang.Name(), op.tokenStart, op.text.Len())
		}
		return lexed{}, false
	}
	end := op.readOffset
	switch {
	case length <= 0:
		raise("lexer input", "%s lexer returned empty token %s at %d", op.lang.Name(), lx.ID, op.tokenStart)
	case end > op.text.Len():
		raise("lexer input", "%s lexer token %s at %d ends past input end %d (missing backup after EOF)",
			op.lang.Name(), lx.ID, op.tokenStart, op.text.Len())
	}

	var tok *Token
	if op.joined != nil {
		tok = op.joinedToken(lx, op.tokenStart, length)
	}
	if tok == nil {
		if lx.Flyweight {
			tok = flyweightToken(op.lang, lx.ID, op.text.Slice(op.tokenStart, end))
		} else {
			tok = newToken(lx.ID, length)
		}
	}

	out := lexed{tok: tok, las: LAState{Lookahead: op.maxRead - end, State: op.lexer.State()}}
	op.tokenStart = end
	op.maxRead = end
	op.index++
	return out, true
}

// joinedToken returns a join token when [start, start+length) crosses a
// section boundary, nil otherwise.
func (op *inputOperation) joinedToken(lx language.Lexeme, start, length int) *Token {
	spans := op.joined.split(start, length)
	if len(spans) < 2 {
		return nil
	}
	lengths := make([]int, len(spans))
	for i, sp := range spans {
		lengths[i] = sp.length
	}
	return newJoinToken(lx.ID, lengths)
}

// release abandons the operation.
func (op *inputOperation) release() {
	if op.released {
		return
	}
	op.released = true
	if r, ok := op.lexer.(language.Releaser); ok {
		r.Release()
	}
}
