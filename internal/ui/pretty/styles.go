// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// defaultWidth is the output width assumed when it cannot be detected.
const defaultWidth = 100

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Token tree components
	ListPath  lipgloss.Style
	TokenID   lipgloss.Style
	Offset    lipgloss.Style
	TokenText lipgloss.Style
	Marker    lipgloss.Style
	State     lipgloss.Style

	// Change tree components
	ChangeTokens  lipgloss.Style
	ChangeAdded   lipgloss.Style
	ChangeRemoved lipgloss.Style
	Affected      lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style
	Error        lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		ListPath:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		TokenID:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Offset:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		TokenText: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Italic(true),
		State:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		ChangeTokens:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		ChangeAdded:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		ChangeRemoved: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Affected:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),

		DiffHeader:  lipgloss.NewStyle().Bold(true),
		DiffAdd:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		DiffRemove:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		DiffContext: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		ListPath:      plain,
		TokenID:       plain,
		Offset:        plain,
		TokenText:     plain,
		Marker:        plain,
		State:         plain,
		ChangeTokens:  plain,
		ChangeAdded:   plain,
		ChangeRemoved: plain,
		Affected:      plain,
		DiffHeader:    plain,
		DiffAdd:       plain,
		DiffRemove:    plain,
		DiffContext:   plain,
		SummaryTitle:  plain,
		SummaryValue:  plain,
		Success:       plain,
		Failure:       plain,
		Error:         plain,
		Dim:           plain,
		Bold:          plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// Width returns the column count of the terminal behind writer, or a
// default when writer is not a terminal.
func Width(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}
