package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relex/internal/logging"
	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/langs"
	"github.com/yaklabco/relex/pkg/lexer"
	"github.com/yaklabco/relex/pkg/reporter"
)

const lexLongDescription = `Lex files and print their token trees.

Every token is shown with its offset, length and kind. Tokens hosting an
embedded language are followed by the embedded token list. The top level
language comes from --lang, a matching glob in the configuration, the file
extension or the file content, in that order. Use "-" to read standard input.

Examples:
  relex lex page.tmpl                 # Token tree of a template
  relex lex --lang calc -             # Lex standard input as calc
  relex lex --format json README.md   # Token tree as JSON`

func newLexCommand(g *globalFlags) *cobra.Command {
	var langName string

	cmd := &cobra.Command{
		Use:   "lex [files...]",
		Short: "Print the token trees of files",
		Long:  lexLongDescription,
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLex(cmd, args, g, langName)
		},
	}

	cmd.Flags().StringVarP(&langName, "lang", "l", "", "top level language (default: detect)")

	return cmd
}

func runLex(cmd *cobra.Command, args []string, g *globalFlags, langName string) (err error) {
	cfg, err := loadSettings(cmd, g, nil)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)
	registry := langs.NewRegistry()

	rep, err := newReporter(cmd, cfg, false)
	if err != nil {
		return err
	}
	defer func() {
		if flushErr := rep.Flush(); err == nil && flushErr != nil {
			err = withCode(ExitIOError, flushErr)
		}
	}()

	for _, path := range args {
		content, err := readSource(cmd, path)
		if err != nil {
			return err
		}
		lang, err := pickLanguage(ctx, registry, cfg, langName, path, content)
		if err != nil {
			return err
		}

		h := lexer.New(document.New(string(content)), lang, lexerOptions(ctx, cfg))
		logger.Debug("lexing",
			logging.FieldPath, path,
			logging.FieldLanguage, lang.Name(),
			logging.FieldHierarchy, h.ID(),
		)

		tree, err := reporter.BuildTree(h.Root())
		if err != nil {
			return withCode(ExitInternalError, fmt.Errorf("%s: %w", path, err))
		}
		if cfg.CheckInvariants {
			if err := h.Validate(); err != nil {
				return withCode(ExitInternalError, fmt.Errorf("%s: %w", path, err))
			}
		}
		if err := rep.ReportTree(ctx, path, tree); err != nil {
			return withCode(ExitIOError, err)
		}
	}

	return nil
}
