// Package cli provides the Cobra command structure for relex.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root relex command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "relex",
		Short: "Incremental lexing of nested languages",
		Long: `relex keeps the tokens of a document up to date while it is edited.

Only the tokens an edit can influence are lexed again. Tokens that host
another language, such as code sections in a template or fenced code in
Markdown, carry embedded token lists that are updated the same way.

Use lex to inspect token trees, replay to apply an edit script and watch
the changes, and stress to compare incremental and batch lexing on random
edits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.register(rootCmd)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitInvalidUsage, err)
	})

	rootCmd.AddCommand(newLexCommand(flags))
	rootCmd.AddCommand(newReplayCommand(flags))
	rootCmd.AddCommand(newStressCommand(flags))
	rootCmd.AddCommand(newLanguagesCommand())
	rootCmd.AddCommand(newConfigCommand(flags))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	newHelpRenderer("auto", os.Stdout).install(rootCmd)

	return rootCmd
}
