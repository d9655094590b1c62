package pretty

import (
	"fmt"
	"strconv"
	"strings"
)

// minTextWidth is the fewest columns left for token text.
const minTextWidth = 12

// TokenLine describes one token for FormatToken.
type TokenLine struct {
	Index     int
	ID        string
	Offset    int
	Length    int
	Lookahead int
	State     int32
	Text      string
	Flyweight bool
	Kind      string
}

// FormatListHeader formats the header line of a token list.
func (s *Styles) FormatListHeader(path string, depth, tokens int) string {
	indent := strings.Repeat("  ", depth)
	return indent + s.ListPath.Render(path) + s.Dim.Render(fmt.Sprintf(" (%d tokens)", tokens)) + "\n"
}

// FormatToken formats a token as one line indented for depth. Text longer
// than what fits in width is shortened.
func (s *Styles) FormatToken(tok TokenLine, depth, width int) string {
	indent := strings.Repeat("  ", depth+1)
	span := fmt.Sprintf("%d+%d", tok.Offset, tok.Length)
	head := fmt.Sprintf("%s[%d] %-8s %s", indent, tok.Index, span, tok.ID)

	var markers []string
	if tok.Kind != "" && tok.Kind != "Plain" {
		markers = append(markers, strings.ToLower(tok.Kind))
	}
	if tok.Flyweight {
		markers = append(markers, "flyweight")
	}
	state := ""
	if tok.Lookahead != 1 || tok.State != 0 {
		state = fmt.Sprintf(" la=%d st=%d", tok.Lookahead, tok.State)
	}

	quoted := strconv.Quote(tok.Text)
	room := max(width-len(head)-len(state)-2, minTextWidth)
	quoted = Truncate(quoted, room)

	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString(s.Dim.Render(fmt.Sprintf("[%d]", tok.Index)))
	sb.WriteByte(' ')
	sb.WriteString(s.Offset.Render(fmt.Sprintf("%-8s", span)))
	sb.WriteByte(' ')
	sb.WriteString(s.TokenID.Render(tok.ID))
	sb.WriteByte(' ')
	sb.WriteString(s.TokenText.Render(quoted))
	if state != "" {
		sb.WriteString(s.State.Render(state))
	}
	if len(markers) > 0 {
		sb.WriteString(" " + s.Marker.Render("("+strings.Join(markers, ", ")+")"))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Truncate shortens s to at most n bytes, marking the cut with "...".
func Truncate(s string, n int) string {
	const ellipsis = "..."
	if len(s) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return s[:n]
	}
	return s[:n-len(ellipsis)] + ellipsis
}

// ChangeLine describes one change for FormatChange.
type ChangeLine struct {
	Kind         string
	Path         string
	Index        int
	Offset       int
	Removed      int
	Added        []string
	AddedLength  int
	BoundsChange bool
}

// FormatChange formats a change of a change tree indented for depth.
func (s *Styles) FormatChange(c ChangeLine, depth int) string {
	indent := strings.Repeat("  ", depth+1)

	kind := s.ChangeTokens
	switch c.Kind {
	case "embedding-added":
		kind = s.ChangeAdded
	case "embedding-removed":
		kind = s.ChangeRemoved
	}

	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString(kind.Render(c.Kind))
	sb.WriteByte(' ')
	sb.WriteString(s.ListPath.Render(c.Path))
	sb.WriteString(s.Dim.Render(fmt.Sprintf(" at [%d] offset %d", c.Index, c.Offset)))
	fmt.Fprintf(&sb, ": -%d +%d", c.Removed, len(c.Added))
	if c.AddedLength > 0 {
		sb.WriteString(s.Dim.Render(fmt.Sprintf(" (%d chars)", c.AddedLength)))
	}
	if c.BoundsChange {
		sb.WriteString(" " + s.Marker.Render("(bounds)"))
	}
	sb.WriteByte('\n')

	if len(c.Added) > 0 {
		quoted := make([]string, len(c.Added))
		for i, text := range c.Added {
			quoted[i] = strconv.Quote(text)
		}
		sb.WriteString(indent + "  " + s.DiffAdd.Render("+ "+strings.Join(quoted, " ")) + "\n")
	}
	return sb.String()
}

// FormatEditHeader formats the line introducing one replayed edit.
func (s *Styles) FormatEditHeader(step, start, end int, text string, affectedStart, affectedEnd int) string {
	return fmt.Sprintf("%s replace [%d, %d) with %s %s\n",
		s.Bold.Render(fmt.Sprintf("edit %d:", step)),
		start, end, strconv.Quote(text),
		s.Affected.Render(fmt.Sprintf("affected [%d, %d)", affectedStart, affectedEnd)))
}

// FormatDiff colors a line diff whose lines start with "-", "+" or a space.
func (s *Styles) FormatDiff(title, diff string) string {
	var sb strings.Builder
	sb.WriteString(s.DiffHeader.Render(title) + "\n")
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch body[0] {
		case '-':
			sb.WriteString(s.DiffRemove.Render(body))
		case '+':
			sb.WriteString(s.DiffAdd.Render(body))
		default:
			sb.WriteString(s.DiffContext.Render(body))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
