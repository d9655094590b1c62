package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relex/internal/ui/pretty"
)

const helpTemplate = `{{ command .CommandPath }}
{{with (or .Long .Short)}}
{{ trimRight . }}
{{end}}
{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (pad .Name .NamePadding) }} {{ .Short }}
{{- end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Run "{{ command (print .CommandPath " [command] --help") }}" for details on a command.
{{- end}}
`

// helpRenderer renders cobra help and usage output with the token tree
// palette.
type helpRenderer struct {
	styles *pretty.Styles
	tmpl   *template.Template
}

func newHelpRenderer(colorMode string, w io.Writer) *helpRenderer {
	r := &helpRenderer{styles: pretty.NewStyles(pretty.IsColorEnabled(colorMode, w))}
	r.tmpl = template.Must(template.New("help").Funcs(template.FuncMap{
		"heading":   r.styles.SummaryTitle.Render,
		"command":   r.styles.ListPath.Render,
		"flags":     r.flagUsages,
		"pad":       pad,
		"trimRight": func(s string) string { return strings.TrimRight(s, " \t\n") },
	}).Parse(helpTemplate))
	return r
}

// install sets the renderer on cmd. Subcommands inherit it.
func (r *helpRenderer) install(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := r.tmpl.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return r.tmpl.Execute(c.OutOrStderr(), c)
	})
}

// flagUsages colors the flag names of pflag's aligned usage block.
func (r *helpRenderer) flagUsages(usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " ")
		end := strings.Index(body, "   ")
		if end < 0 {
			continue
		}
		indent := line[:len(line)-len(body)]
		lines[i] = indent + r.styleNames(body[:end]) + body[end:]
	}
	return strings.Join(lines, "\n")
}

func (r *helpRenderer) styleNames(names string) string {
	fields := strings.Fields(names)
	for i, f := range fields {
		if name, comma := strings.CutSuffix(f, ","); strings.HasPrefix(name, "-") {
			fields[i] = r.styles.TokenID.Render(name)
			if comma {
				fields[i] += ","
			}
			continue
		}
		fields[i] = r.styles.Dim.Render(f)
	}
	return strings.Join(fields, " ")
}

func pad(s string, width int) string {
	if n := width - len(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
