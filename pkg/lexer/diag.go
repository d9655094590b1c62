package lexer

import (
	"fmt"
	"strings"
)

// Diagnostics receives debug output of the engine.
// *log.Logger from github.com/charmbracelet/log satisfies it.
type Diagnostics interface {
	Debug(msg any, keyvals ...any)
}

type nopDiagnostics struct{}

func (nopDiagnostics) Debug(any, ...any) {}

// NopDiagnostics discards everything.
func NopDiagnostics() Diagnostics { return nopDiagnostics{} }

// Dump renders the tokens of a list, one per line.
func Dump(list TokenList) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d tokens)\n", list.Path().Key(), list.Len())
	for i := range list.Len() {
		tok := list.Token(i)
		las := list.LAState(i)
		fmt.Fprintf(&sb, "  [%d] %d %s la=%d st=%d", i, list.Offset(i), tok, las.Lookahead, las.State)
		if text, err := list.Text(i); err == nil {
			fmt.Fprintf(&sb, " %q", text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
