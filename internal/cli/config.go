package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relex/internal/configloader"
)

func newConfigCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration after merging all sources",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadSettings(cmd, g, nil)
			if err != nil {
				return err
			}
			data, err := cfg.ToYAML()
			if err != nil {
				return withCode(ExitInternalError, err)
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return withCode(ExitIOError, err)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List the environment variables relex reads",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := configloader.ListEnvVars()
			names := make([]string, 0, len(vars))
			for name := range vars {
				names = append(names, name)
			}
			slices.Sort(names)

			width := 0
			for _, name := range names {
				width = max(width, len(name))
			}
			var sb strings.Builder
			for _, name := range names {
				fmt.Fprintf(&sb, "%-*s  %s\n", width, name, vars[name])
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), sb.String()); err != nil {
				return withCode(ExitIOError, err)
			}
			return nil
		},
	})

	return cmd
}
