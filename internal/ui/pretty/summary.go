package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/relex/pkg/stress"
)

const summaryDividerWidth = 40

// FormatStressSummary formats the outcome of a stress run as a summary block.
func (s *Styles) FormatStressSummary(res *stress.Result) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Seed:          " + s.SummaryValue.Render(strconv.FormatUint(res.Seed, 10)) + "\n")
	builder.WriteString("  Documents:     " + s.SummaryValue.Render(strconv.Itoa(res.Iterations)) + "\n")
	builder.WriteString("  Edits:         " + s.SummaryValue.Render(strconv.Itoa(res.Edits)) + "\n")
	builder.WriteString("  Tokens:        " + s.SummaryValue.Render(strconv.Itoa(res.Tokens)) + "\n")
	builder.WriteString("  Duration:      " + s.SummaryValue.Render(res.Duration.Round(time.Millisecond).String()) + "\n")
	if n := len(res.Failures); n > 0 {
		builder.WriteString("  Failures:      " + s.Failure.Render(strconv.Itoa(n)) + "\n")
	}

	builder.WriteString("\n")
	if res.Passed() {
		builder.WriteString(s.Success.Render("Incremental lexing matched batch lexing"))
	} else {
		builder.WriteString(s.Failure.Render(fmt.Sprintf("Incremental lexing diverged in %d documents", len(res.Failures))))
	}
	builder.WriteString("\n")

	return builder.String()
}
