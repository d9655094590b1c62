package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relex/internal/configloader"
	"github.com/yaklabco/relex/internal/logging"
	"github.com/yaklabco/relex/pkg/config"
	"github.com/yaklabco/relex/pkg/langdetect"
	"github.com/yaklabco/relex/pkg/language"
	"github.com/yaklabco/relex/pkg/lexer"
	"github.com/yaklabco/relex/pkg/reporter"
)

// stdinPath names standard input in file arguments.
const stdinPath = "-"

// globalFlags holds the persistent flags shared by all commands.
type globalFlags struct {
	configPath      string
	logLevel        string
	debug           bool
	format          string
	color           string
	lazy            bool
	checkInvariants bool
	dumpTokens      bool
}

func (g *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "path to config file")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&g.debug, "debug", false, "enable debug logging")
	pf.StringVar(&g.format, "format", "", "output format: text, json")
	pf.StringVar(&g.color, "color", "", "colorize output: auto, always, never")
	pf.BoolVar(&g.lazy, "lazy", false, "lex the top level list only as far as it is read")
	pf.BoolVar(&g.checkInvariants, "check-invariants", false, "validate the hierarchy after every update")
	pf.BoolVar(&g.dumpTokens, "dump-tokens", false, "log every changed token list at debug level")
}

// cliConfig returns a config holding only what the flags set. Zero values
// leave lower layers alone when merged.
func (g *globalFlags) cliConfig() *config.Config {
	cfg := &config.Config{
		LogLevel:        g.logLevel,
		Format:          config.OutputFormat(g.format),
		Color:           config.ColorMode(g.color),
		Lazy:            g.lazy,
		CheckInvariants: g.checkInvariants,
		DumpTokens:      g.dumpTokens,
	}
	if g.debug {
		cfg.LogLevel = "debug"
	}
	return cfg
}

// loadSettings resolves the configuration for a command and attaches a
// logger at the configured level to the command context. stress may carry
// command specific settings.
func loadSettings(cmd *cobra.Command, g *globalFlags, stress *config.StressConfig) (*config.Config, error) {
	ctx := commandContext(cmd)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, withCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	cliCfg := g.cliConfig()
	if stress != nil {
		cliCfg.Stress = *stress
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: g.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, withCode(ExitDataError, errors.Join(errors.New("failed to load configuration"), err))
	}

	cfg := loadResult.Config
	logging.SetLevel(cfg.LogLevel)
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
	cmd.SetContext(logging.WithLogger(ctx, logger))

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldLazy, cfg.Lazy,
		"check_invariants", cfg.CheckInvariants,
		"format", cfg.Format,
	)

	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// lexerOptions builds hierarchy options from the configuration.
func lexerOptions(ctx context.Context, cfg *config.Config) lexer.Options {
	return lexer.Options{
		Lazy:            cfg.Lazy,
		CheckInvariants: cfg.CheckInvariants,
		DumpTokens:      cfg.DumpTokens,
		Diagnostics:     logging.Diagnostics(logging.FromContext(ctx)),
	}
}

// newReporter creates the reporter selected by the configuration.
//
//nolint:ireturn // Reporter is the package's own interface
func newReporter(cmd *cobra.Command, cfg *config.Config, showTokens bool) (reporter.Reporter, error) {
	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, usageError("invalid format: %w", err)
	}
	rep, err := reporter.New(reporter.Options{
		Writer:     cmd.OutOrStdout(),
		Format:     format,
		Color:      string(cfg.Color),
		ShowTokens: showTokens,
	})
	if err != nil {
		return nil, withCode(ExitInternalError, fmt.Errorf("create reporter: %w", err))
	}
	return rep, nil
}

// readSource reads a file argument, or standard input for "-".
func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, withCode(ExitIOError, fmt.Errorf("read %s: %w", path, err))
	}
	return data, nil
}

// pickLanguage resolves an explicit language name, or detects one from the
// file name and content.
//
//nolint:ireturn // languages are only known by their interface
func pickLanguage(ctx context.Context, registry *language.Registry, cfg *config.Config, name, path string, content []byte) (language.Language, error) {
	if name != "" {
		lang, err := registry.Resolve(name)
		if err != nil {
			return nil, usageError("%w", err)
		}
		return lang, nil
	}

	res, err := langdetect.New(registry, cfg).Detect(path, content)
	if err != nil {
		return nil, withCode(ExitDataError, err)
	}
	logging.FromContext(ctx).Debug("detected language",
		logging.FieldPath, path,
		logging.FieldLanguage, res.Language.Name(),
		"source", res.Source,
	)
	return res.Language, nil
}

// isIOError reports whether err came from the file system.
func isIOError(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr)
}
