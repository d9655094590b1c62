package stress

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/yaklabco/relex/pkg/lexer"
)

// Compare renders two flattened hierarchies one token per line and diffs
// them. It returns an empty string when they are equal.
func Compare(want, got []lexer.FlatToken) string {
	wantText, gotText := render(want), render(got)
	if wantText == gotText {
		return ""
	}
	return DiffLines(wantText, gotText)
}

// DiffLines returns a line diff of a and b: removed lines start with "-",
// added lines with "+" and unchanged ones with a space.
func DiffLines(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

func render(tokens []lexer.FlatToken) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
