//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
	"s":   Stress.Default,
	"fz":  Test.Fuzz,
}

type (
	Test   st.Namespace
	Lint   st.Namespace
	CI     st.Namespace
	Bench  st.Namespace
	Stress st.Namespace
)

// stressLanguages are the languages the stress targets cover.
var stressLanguages = []string{"calc", "plain", "tmpl", "tmpl-join", "markdown"}

// Build compiles bin/relex with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir("bin/relex", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/relex is up to date")
		return nil
	}
	fmt.Println("Building relex...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/relex", "./cmd/relex")
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "testdata/failures"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs relex to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/relex")
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	return gotestsum("pkgname-and-test-fails", "-race", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Lexer runs only the engine tests, verbosely.
func (Test) Lexer() error {
	return gotestsum("standard-verbose", "-race", "./pkg/gaplist", "./pkg/lexer", "./pkg/langs/...")
}

// Fuzz runs the incremental lexing fuzz test for FUZZTIME (default 1m).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "1m")
	fmt.Printf("Fuzzing incremental edits for %s...\n", fuzzTime)
	return sh.RunV("go", "test", "-run", "^$", "-fuzz", "^FuzzIncrementalEdits$", "-fuzztime", fuzzTime, "./pkg/lexer")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would change a file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate runs every check CI runs.
func (CI) Gate() {
	st.SerialDeps(
		Lint.FmtCheck,
		func() error { return sh.RunV("go", "vet", "./...") },
		func() error { return sh.RunV("golangci-lint", "run", "./...") },
		Build,
		Test.Default,
		CI.ModTidy,
		Stress.Default,
	)
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make([][]byte, len(files))
	for i, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[i] = data
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	for i, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if !bytes.Equal(before[i], after) {
			return errors.New(name + " changed after go mod tidy")
		}
	}
	return nil
}

// Default runs Go benchmarks.
func (Bench) Default() error {
	return gotestsum("pkgname-and-test-fails", "-run", "^$", "-bench=.", "-benchmem", "./...")
}

// Default runs a short stress run for every built-in language.
func (Stress) Default() error {
	st.Deps(Build)
	return runStress("200", "20")
}

// Long runs a long stress run for every built-in language with invariant
// checks after every edit.
func (Stress) Long() error {
	st.Deps(Build)
	return runStress("5000", "40", "--check-invariants")
}

func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}, args...)...)
}

// runStress runs the built binary's stress command for every language.
// Failing documents are saved under testdata/failures.
func runStress(iterations, steps string, extra ...string) error {
	seed := os.Getenv("STRESS_SEED")
	for _, lang := range stressLanguages {
		fmt.Printf("Stressing %s...\n", lang)
		args := []string{"stress", "--lang", lang, "--iterations", iterations, "--steps", steps, "--save", "testdata/failures"}
		if seed != "" {
			args = append(args, "--seed", seed)
		}
		if err := sh.RunV("bin/relex", append(args, extra...)...); err != nil {
			return fmt.Errorf("stress %s: %w", lang, err)
		}
	}
	return nil
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}
