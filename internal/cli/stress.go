package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relex/internal/logging"
	"github.com/yaklabco/relex/pkg/config"
	"github.com/yaklabco/relex/pkg/langs"
	"github.com/yaklabco/relex/pkg/stress"
)

const stressLongDescription = `Apply random edits to random documents and compare every result with
a fresh lex of the same text.

Each failing document is printed with a replay script that reproduces it.
Runs are reproducible: pass the seed printed in the summary to repeat one.

Examples:
  relex stress                          # Defaults from the configuration
  relex stress --lang calc --seed 42    # Reproduce a run
  relex stress --iterations 5000 --fail-fast`

// stressFlags holds the flags for the stress command that are not part of
// the configuration.
type stressFlags struct {
	failFast bool
	saveDir  string
}

func newStressCommand(g *globalFlags) *cobra.Command {
	settings := &config.StressConfig{}
	flags := &stressFlags{}

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Compare incremental and batch lexing on random edits",
		Long:  stressLongDescription,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStress(cmd, g, settings, flags)
		},
	}

	cmd.Flags().Uint64Var(&settings.Seed, "seed", 0, "random seed (default: from config, or random)")
	cmd.Flags().IntVar(&settings.Iterations, "iterations", 0, "number of random documents")
	cmd.Flags().IntVar(&settings.Steps, "steps", 0, "edits applied to each document")
	cmd.Flags().IntVar(&settings.MaxEditLength, "max-edit", 0, "most characters one edit removes or inserts")
	cmd.Flags().IntVar(&settings.MaxDocumentLength, "max-length", 0, "longest generated document")
	cmd.Flags().StringVar(&settings.Alphabet, "alphabet", "", "characters random text is drawn from")
	cmd.Flags().StringVarP(&settings.Language, "lang", "l", "", "top level language")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "stop at the first failing document")
	cmd.Flags().StringVar(&flags.saveDir, "save", "", "directory to write a replay script per failing document to")

	return cmd
}

func runStress(cmd *cobra.Command, g *globalFlags, settings *config.StressConfig, flags *stressFlags) (err error) {
	cfg, err := loadSettings(cmd, g, settings)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	lang, err := langs.NewRegistry().Resolve(cfg.Stress.Language)
	if err != nil {
		return usageError("%w", err)
	}

	rep, err := newReporter(cmd, cfg, false)
	if err != nil {
		return err
	}
	defer func() {
		if flushErr := rep.Flush(); err == nil && flushErr != nil {
			err = withCode(ExitIOError, flushErr)
		}
	}()

	opts := lexerOptions(ctx, cfg)
	res, runErr := stress.Run(ctx, stress.Options{
		Seed:              cfg.Stress.Seed,
		Iterations:        cfg.Stress.Iterations,
		Steps:             cfg.Stress.Steps,
		MaxEditLength:     cfg.Stress.MaxEditLength,
		MaxDocumentLength: cfg.Stress.MaxDocumentLength,
		Alphabet:          cfg.Stress.Alphabet,
		Language:          lang,
		Lazy:              opts.Lazy,
		CheckInvariants:   opts.CheckInvariants,
		Diagnostics:       opts.Diagnostics,
		FailFast:          flags.failFast,
		Progress: func(done int) {
			logger.Debug("document done", logging.FieldIterations, done)
		},
	})
	if res != nil {
		logger.Debug("stress run finished",
			logging.FieldSeed, res.Seed,
			logging.FieldLanguage, lang.Name(),
			logging.FieldEdits, res.Edits,
			logging.FieldFailures, len(res.Failures),
		)
		if err := rep.ReportStress(ctx, res, lang.Name()); err != nil {
			return withCode(ExitIOError, err)
		}
	}
	if runErr != nil {
		return withCode(ExitInternalError, runErr)
	}
	if flags.saveDir != "" {
		paths, err := stress.SaveFailures(ctx, flags.saveDir, res, lang.Name())
		if err != nil {
			return withCode(ExitIOError, err)
		}
		for _, path := range paths {
			logger.Info("saved failure", logging.FieldPath, path)
		}
	}
	if !res.Passed() {
		return fmt.Errorf("%d of %d documents: %w", len(res.Failures), res.Iterations, ErrTokensDiverged)
	}
	return nil
}
