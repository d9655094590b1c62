package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relex/internal/logging"
	"github.com/yaklabco/relex/pkg/config"
	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/fsutil"
	"github.com/yaklabco/relex/pkg/langs"
	"github.com/yaklabco/relex/pkg/language"
	"github.com/yaklabco/relex/pkg/lexer"
	"github.com/yaklabco/relex/pkg/reporter"
	"github.com/yaklabco/relex/pkg/stress"
)

const replayLongDescription = `Replay an edit script and print what every edit changed.

The script is a YAML document naming the language, the initial text and a
list of edits, each replacing [start, end) with text:

  language: tmpl
  text: "a<%x%>b"
  edits:
    - {start: 4, end: 4, text: "y"}
    - {start: 1, end: 3}

After every edit the incremental tokens are compared with a fresh lex of
the new text. The command fails if they differ. Stress failures print
scripts in this format.

Examples:
  relex replay edits.yml                  # Show the change tree of each edit
  relex replay --tokens edits.yml         # Also show the token tree after each edit
  relex replay --text page.tmpl edits.yml # Start from the content of a file`

// replayFlags holds the flags for the replay command.
type replayFlags struct {
	langName string
	textPath string
	tokens   bool
	noVerify bool
	output   string
}

func newReplayCommand(g *globalFlags) *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Apply an edit script and show the token changes",
		Long:  replayLongDescription,
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], g, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.langName, "lang", "l", "", "top level language (default: the script's language)")
	cmd.Flags().StringVar(&flags.textPath, "text", "", "file holding the initial text when the script has none")
	cmd.Flags().BoolVar(&flags.tokens, "tokens", false, "print the token tree after every edit")
	cmd.Flags().BoolVar(&flags.noVerify, "no-verify", false, "skip the comparison with a fresh lex")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the edited text to this file")

	return cmd
}

func runReplay(cmd *cobra.Command, scriptPath string, g *globalFlags, flags *replayFlags) (err error) {
	cfg, err := loadSettings(cmd, g, nil)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	script, err := document.LoadScript(scriptPath)
	if err != nil {
		if isIOError(err) {
			return withCode(ExitIOError, err)
		}
		return withCode(ExitDataError, err)
	}

	initial, err := initialText(cmd, script, flags)
	if err != nil {
		return err
	}
	lang, err := replayLanguage(ctx, cfg, script, flags, initial)
	if err != nil {
		return err
	}

	rep, err := newReporter(cmd, cfg, flags.tokens)
	if err != nil {
		return err
	}
	defer func() {
		if flushErr := rep.Flush(); err == nil && flushErr != nil {
			err = withCode(ExitIOError, flushErr)
		}
	}()

	doc := document.New(initial)
	h := lexer.New(doc, lang, lexerOptions(ctx, cfg))
	logger.Debug("replaying",
		logging.FieldPath, scriptPath,
		logging.FieldLanguage, lang.Name(),
		logging.FieldEdits, len(script.Edits),
		logging.FieldHierarchy, h.ID(),
	)

	// Embedded lists only report changes once they exist.
	tree, err := reporter.BuildTree(h.Root())
	if err != nil {
		return withCode(ExitInternalError, err)
	}
	if flags.tokens {
		if err := rep.ReportTree(ctx, "initial", tree); err != nil {
			return withCode(ExitIOError, err)
		}
	}

	diverged := 0
	for i, edit := range script.Edits {
		if err := ctx.Err(); err != nil {
			return withCode(ExitInternalError, err)
		}

		step, err := replayStep(h, doc, lang, i+1, edit, !flags.noVerify)
		if err != nil {
			return err
		}
		if step.Failed() {
			diverged++
		}
		if flags.tokens {
			if step.Tree, err = reporter.BuildTree(h.Root()); err != nil {
				return withCode(ExitInternalError, err)
			}
		}
		if err := rep.ReportStep(ctx, step); err != nil {
			return withCode(ExitIOError, err)
		}
		if step.Error != "" {
			return withCode(ExitInternalError, fmt.Errorf("edit %d: %s", step.Index, step.Error))
		}
	}

	logger.Debug("replay finished", logging.FieldEdits, len(script.Edits), "diverged", diverged)
	if flags.output != "" {
		written, err := fsutil.WriteAtomicIfChanged(ctx, flags.output, []byte(doc.String()), 0)
		if err != nil {
			return withCode(ExitIOError, err)
		}
		logger.Debug("wrote edited text", logging.FieldOutput, flags.output, "changed", written)
	}
	if diverged > 0 {
		return fmt.Errorf("%d of %d edits: %w", diverged, len(script.Edits), ErrTokensDiverged)
	}
	return nil
}

// replayStep applies one edit and describes its effect. Invalid edits fail
// the replay; update failures are recorded on the step.
func replayStep(h *lexer.Hierarchy, doc *document.Document, lang language.Language, index int, edit document.TextEdit, verify bool) (*reporter.Step, error) {
	ev, err := h.Edit(func() (lexer.Modification, error) { return doc.Apply(edit) })
	if err != nil {
		var invalid *document.ValidationError
		if errors.As(err, &invalid) {
			return nil, withCode(ExitDataError, fmt.Errorf("edit %d: %w", index, err))
		}
		step := reporter.NewStep(index, edit, nil)
		step.Error = err.Error()
		return step, nil
	}

	step := reporter.NewStep(index, edit, ev)
	if verify {
		step.Mismatch = stress.Compare(lexer.Lex(doc.String(), lang).Flatten(), h.Flatten())
	}
	return step, nil
}

func initialText(cmd *cobra.Command, script *document.Script, flags *replayFlags) (string, error) {
	if script.Text != nil {
		if flags.textPath != "" {
			return "", usageError("the script has its own text; drop --text")
		}
		return *script.Text, nil
	}
	if flags.textPath == "" {
		return "", nil
	}
	data, err := readSource(cmd, flags.textPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

//nolint:ireturn // languages are only known by their interface
func replayLanguage(ctx context.Context, cfg *config.Config, script *document.Script, flags *replayFlags, initial string) (language.Language, error) {
	registry := langs.NewRegistry()
	switch {
	case flags.langName != "":
		return pickLanguage(ctx, registry, cfg, flags.langName, "", nil)
	case script.Language != "":
		lang, err := registry.Resolve(script.Language)
		if err != nil {
			return nil, withCode(ExitDataError, err)
		}
		return lang, nil
	case flags.textPath != "" && flags.textPath != stdinPath:
		return pickLanguage(ctx, registry, cfg, "", flags.textPath, []byte(initial))
	default:
		return nil, usageError("no language: pass --lang or set language in the script")
	}
}
