// Package language defines the contract between the token engine and the
// scanners that classify characters into tokens.
package language

import "fmt"

// EOF is returned by Input.Read once the end of the input has been reached.
// Every read, including one that returns EOF, advances the read position.
const EOF = -1

// State is an opaque scanner state. Scanners must be restartable from any
// state they reported at a token boundary.
type State int32

// InitialState is the state a scanner starts in at the beginning of a list.
const InitialState State = 0

// TokenID identifies a token kind within one language.
type TokenID struct {
	// Ordinal is unique per language.
	Ordinal int

	// Name is the human readable kind name, e.g. "IDENT".
	Name string
}

// String returns the kind name.
func (id TokenID) String() string {
	if id.Name == "" {
		return fmt.Sprintf("#%d", id.Ordinal)
	}
	return id.Name
}

// Input is the character source a Lexer reads from.
type Input interface {
	// Read returns the next byte or EOF.
	Read() int

	// Backup un-reads the last n characters.
	Backup(n int)

	// ReadLength returns the number of characters read for the current token.
	ReadLength() int

	// ReadText returns the text read so far for the current token, excluding EOF reads.
	ReadText() string
}

// Lexeme describes one recognized token.
type Lexeme struct {
	// ID is the token kind.
	ID TokenID

	// Flyweight marks fixed lexemes (operators, keywords) that may be shared
	// between lists.
	Flyweight bool
}

// Lexer recognizes tokens from an Input.
type Lexer interface {
	// NextToken consumes the characters of one token and reports its kind.
	// It returns false at the end of the input once every character was consumed.
	NextToken() (Lexeme, bool)

	// State returns the state at the end of the last recognized token.
	State() State
}

// Releaser is implemented by lexers holding resources that should be dropped
// when an unfinished lex is abandoned.
type Releaser interface {
	Release()
}

// Embedding describes a language embedded inside a single token.
type Embedding struct {
	// Language lexes the embedded content.
	Language Language

	// StartSkip is the number of leading characters owned by the host language.
	StartSkip int

	// EndSkip is the number of trailing characters owned by the host language.
	EndSkip int

	// JoinSections lexes all sections of the same language path as one stream.
	JoinSections bool
}

// Language creates lexers and decides on embedded languages.
type Language interface {
	// Name is the registry name of the language.
	Name() string

	// NewLexer returns a lexer reading from in, starting in state.
	NewLexer(in Input, state State) Lexer

	// Embedding returns the embedding for a token, or nil when the token
	// hosts no embedded language. path is the path of the list holding the token.
	Embedding(id TokenID, text string, path Path) *Embedding
}
