package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relex/pkg/langs"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the built-in languages",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range langs.NewRegistry().Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return withCode(ExitIOError, err)
				}
			}
			return nil
		},
	}
}
