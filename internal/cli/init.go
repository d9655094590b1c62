package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relex/internal/configloader"
	"github.com/yaklabco/relex/internal/logging"
	"github.com/yaklabco/relex/pkg/config"
	"github.com/yaklabco/relex/pkg/langs"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
	stdout bool
	dir    string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new relex configuration file",
		Long: `Create a .relex.yml configuration file holding the defaults, each
documented with a comment.

Examples:
  relex init                   Create .relex.yml in the current directory
  relex init --force           Overwrite an existing .relex.yml
  relex init --format json     Print the defaults as JSON`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json (json is always printed)")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "Print the template instead of writing a file")
	cmd.Flags().StringVar(&flags.dir, "dir", ".", "Directory to write .relex.yml to")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	if flags.format != "yaml" && flags.format != "json" {
		return usageError("invalid format %q: must be yaml or json", flags.format)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format:    flags.format,
		Languages: langs.NewRegistry().Names(),
	})
	if err != nil {
		return withCode(ExitInternalError, err)
	}

	if flags.stdout || flags.format == "json" {
		if _, err := cmd.OutOrStdout().Write(content); err != nil {
			return withCode(ExitIOError, err)
		}
		return nil
	}

	path, err := configloader.WriteProjectConfig(commandContext(cmd), flags.dir, content, flags.force)
	if errors.Is(err, configloader.ErrConfigExists) {
		return usageError("%s already exists; use --force to overwrite", path)
	}
	if err != nil {
		return withCode(ExitIOError, err)
	}

	logger := logging.NewInteractive()
	logger.Info("created configuration file", logging.FieldPath, path)
	logger.Info("run 'relex languages' to see the language names globs can map to")

	return nil
}
