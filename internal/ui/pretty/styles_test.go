package pretty_test

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/internal/ui/pretty"
	"github.com/yaklabco/relex/pkg/stress"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	text := "test"
	assert.Equal(t, text, styles.Bold.Render(text), "No-color Bold should not add formatting")
	assert.Equal(t, text, styles.TokenID.Render(text))
}

func TestNewStyles_ColorEnabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)
	assert.NotEmpty(t, styles.ListPath.Render("x"))
	assert.NotEmpty(t, styles.DiffAdd.Render("x"))
	assert.NotEmpty(t, styles.ChangeRemoved.Render("x"))
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "auto mode with non-TTY should return false")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout), "NO_COLOR wins over a TTY")
}

func TestWidth_NonTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, 100, pretty.Width(&buf))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short", n: 10, want: "short"},
		{in: "a longer text", n: 8, want: "a lon..."},
		{in: "abcdef", n: 2, want: "ab"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pretty.Truncate(tt.in, tt.n))
	}
}

func TestFormatToken(t *testing.T) {
	t.Parallel()

	s := pretty.NewStyles(false)
	line := s.FormatToken(pretty.TokenLine{
		Index: 2, ID: "IDENT", Offset: 4, Length: 3, Lookahead: 1, Text: "abc", Kind: "Plain",
	}, 0, 80)
	assert.Equal(t, `  [2] 4+3      IDENT "abc"`+"\n", line)

	line = s.FormatToken(pretty.TokenLine{
		ID: "OPERATOR", Length: 1, Lookahead: 2, State: 1, Text: "+", Flyweight: true, Kind: "Join",
	}, 1, 80)
	assert.Contains(t, line, " la=2 st=1")
	assert.Contains(t, line, "(join, flyweight)")
	assert.True(t, strings.HasPrefix(line, "    [0]"))

	long := s.FormatToken(pretty.TokenLine{ID: "TEXT", Lookahead: 1, Text: strings.Repeat("x", 200)}, 0, 60)
	assert.Contains(t, long, "...")
	assert.Less(t, len(long), 80)
}

func TestFormatChange(t *testing.T) {
	t.Parallel()

	s := pretty.NewStyles(false)
	out := s.FormatChange(pretty.ChangeLine{
		Kind: "tokens", Path: "calc", Index: 1, Offset: 2, Removed: 1,
		Added: []string{"xy"}, AddedLength: 2, BoundsChange: true,
	}, 0)
	assert.Equal(t, "  tokens calc at [1] offset 2: -1 +1 (2 chars) (bounds)\n    + \"xy\"\n", out)
}

func TestFormatDiff(t *testing.T) {
	t.Parallel()

	s := pretty.NewStyles(false)
	assert.Equal(t, "mismatch\n a\n-b\n+c\n", s.FormatDiff("mismatch", " a\n-b\n+c\n"))
}

func TestFormatStressSummary(t *testing.T) {
	t.Parallel()

	s := pretty.NewStyles(false)
	res := &stress.Result{Seed: 9, Iterations: 2, Edits: 10, Tokens: 40, Duration: time.Second}
	out := s.FormatStressSummary(res)
	assert.Contains(t, out, "Seed:          9")
	assert.Contains(t, out, "matched batch lexing")
	assert.NotContains(t, out, "Failures")

	res.Failures = []*stress.Failure{{}}
	out = s.FormatStressSummary(res)
	assert.Contains(t, out, "Failures:      1")
	assert.Contains(t, out, "diverged in 1 documents")
}

func TestFormatEditHeader(t *testing.T) {
	t.Parallel()

	s := pretty.NewStyles(false)
	assert.Equal(t, "edit 1: replace [0, 2) with \"x\" affected [0, 3)\n", s.FormatEditHeader(1, 0, 2, "x", 0, 3))
}
