package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/internal/cli"
	"github.com/yaklabco/relex/pkg/config"
	"github.com/yaklabco/relex/pkg/reporter"
)

// run executes the root command with colors off and returns its output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	require.NotNil(t, cmd)
	assert.Equal(t, "relex", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"lex", "replay", "stress", "languages", "config", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "log-level", "debug", "format", "color", "lazy", "check-invariants", "dump-tokens"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "replay", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "relex replay")
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "replay SCRIPT")
	assert.Contains(t, out, "Flags:")
	assert.Contains(t, out, "--no-verify")
	assert.Contains(t, out, "Global Flags:")
	assert.Contains(t, out, "--check-invariants")

	out, err = run(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "stress")
}

func TestCommandLoggerWritesToStderr(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "input.calc", "a + 1")
	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--color", "never", "--log-level", "debug", "lex", "--lang", "calc", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "lexing")
	assert.Contains(t, stderr.String(), "hierarchy created")
	assert.NotContains(t, stdout.String(), "hierarchy created")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "diverged", err: fmt.Errorf("2 edits: %w", cli.ErrTokensDiverged), want: cli.ExitTokensDiverged},
		{name: "explicit code", err: &cli.ExitError{Code: cli.ExitDataError, Err: errors.New("bad")}, want: cli.ExitDataError},
		{name: "wrapped code", err: fmt.Errorf("ctx: %w", &cli.ExitError{Code: cli.ExitIOError, Err: errors.New("eof")}), want: cli.ExitIOError},
		{name: "anything else", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestLex_Stdin(t *testing.T) {
	out, err := run(t, "a + 1", "lex", "--lang", "calc", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "calc (5 tokens)")
	assert.Contains(t, out, `"a"`)
	assert.Contains(t, out, `"1"`)
}

func TestLex_DetectsLanguage(t *testing.T) {
	path := writeFile(t, "page.tmpl", "a<%x + 1%>b")

	out, err := run(t, "", "lex", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "tmpl (3 tokens)")
	assert.Contains(t, out, "tmpl/calc (5 tokens)")
}

func TestLex_JSON(t *testing.T) {
	path := writeFile(t, "page.tmpl", "a<%x%>b")

	out, err := run(t, "", "--format", "json", "--check-invariants", "lex", path)
	require.NoError(t, err)

	var doc reporter.JSONTree
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, path, doc.Source)
	assert.Equal(t, "tmpl", doc.Tree.Path)
	require.Len(t, doc.Tree.Tokens, 3)
	require.Len(t, doc.Tree.Tokens[1].Embedded, 1)
	assert.Equal(t, "tmpl/calc", doc.Tree.Tokens[1].Embedded[0].Path)
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no files", args: []string{"lex"}, want: cli.ExitInvalidUsage},
		{name: "unknown language", args: []string{"lex", "--lang", "cobol", "-"}, want: cli.ExitInvalidUsage},
		{name: "unknown flag", args: []string{"lex", "--nope", "-"}, want: cli.ExitInvalidUsage},
		{name: "missing file", args: []string{"lex", filepath.Join(t.TempDir(), "missing.tmpl")}, want: cli.ExitIOError},
		{name: "bad format", args: []string{"--format", "xml", "lex", "-"}, want: cli.ExitDataError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "x", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err))
		})
	}
}

const replayScript = `language: tmpl
text: "a<%x%>b"
edits:
  - {start: 4, end: 4, text: "y"}
  - {start: 1, end: 3}
`

func TestReplay(t *testing.T) {
	path := writeFile(t, "edits.yml", replayScript)

	out, err := run(t, "", "replay", path)
	require.NoError(t, err)
	assert.Contains(t, out, `edit 1: replace [4, 4) with "y"`)
	assert.Contains(t, out, "(bounds)")
	assert.Contains(t, out, `+ "xy"`)
	assert.Contains(t, out, `edit 2: replace [1, 3) with ""`)
	assert.Contains(t, out, "embedding-removed tmpl/calc")
	assert.NotContains(t, out, "batch lexing differs")
}

func TestReplay_Tokens(t *testing.T) {
	path := writeFile(t, "edits.yml", replayScript)

	out, err := run(t, "", "replay", "--tokens", path)
	require.NoError(t, err)
	assert.Contains(t, out, "initial\n")
	assert.Contains(t, out, `"<%xy%>"`)
	assert.Contains(t, out, `"axy%>b"`)
}

func TestReplay_JSON(t *testing.T) {
	path := writeFile(t, "edits.yml", replayScript)

	out, err := run(t, "", "--format", "json", "replay", path)
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(out))
	for want := 1; want <= 2; want++ {
		var step reporter.Step
		require.NoError(t, dec.Decode(&step))
		assert.Equal(t, want, step.Index)
		assert.False(t, step.Failed())
		require.NotNil(t, step.Changes)
	}
	assert.False(t, dec.More())
}

func TestReplay_TextFromFile(t *testing.T) {
	text := writeFile(t, "page.tmpl", "<%1%>")
	script := writeFile(t, "edits.yml", "edits:\n  - {start: 2, end: 3, text: \"22\"}\n")

	out, err := run(t, "", "replay", "--text", text, "--tokens", script)
	require.NoError(t, err)
	assert.Contains(t, out, `"<%22%>"`)
}

func TestReplay_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		args   []string
		want   int
	}{
		{name: "edit out of range", script: "language: calc\ntext: ab\nedits:\n  - {start: 1, end: 9}\n", want: cli.ExitDataError},
		{name: "unknown field", script: "language: calc\nedit: []\n", want: cli.ExitDataError},
		{name: "unknown script language", script: "language: cobol\nedits: []\n", want: cli.ExitDataError},
		{name: "no language", script: "text: ab\nedits: []\n", want: cli.ExitInvalidUsage},
		{name: "text twice", script: "language: calc\ntext: ab\nedits: []\n", args: []string{"--text", "other.txt"}, want: cli.ExitInvalidUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "edits.yml", tt.script)
			_, err := run(t, "", append(append([]string{"replay"}, tt.args...), path)...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err))
		})
	}

	_, err := run(t, "", "replay", filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestStress(t *testing.T) {
	out, err := run(t, "", "stress", "--lang", "calc", "--seed", "3", "--iterations", "5", "--steps", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed:          3")
	assert.Contains(t, out, "Documents:     5")
	assert.Contains(t, out, "Edits:         20")
}

func TestStress_JSON(t *testing.T) {
	out, err := run(t, "", "--format", "json", "stress", "--lang", "tmpl-join", "--seed", "11", "--iterations", "4", "--steps", "3")
	require.NoError(t, err)

	var report reporter.StressReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, uint64(11), report.Seed)
	assert.Equal(t, "tmpl-join", report.Language)
	assert.Equal(t, 12, report.Edits)
	assert.True(t, report.Passed)
}

func TestStress_UnknownLanguage(t *testing.T) {
	_, err := run(t, "", "stress", "--lang", "cobol")
	require.Error(t, err)
	assert.Equal(t, cli.ExitDataError, cli.ExitCode(err))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "", "init", "--dir", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".relex.yml"))
	require.NoError(t, err)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig().Stress, cfg.Stress)

	_, err = run(t, "", "init", "--dir", dir)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, err = run(t, "", "init", "--dir", dir, "--force")
	require.NoError(t, err)
}

func TestInit_Stdout(t *testing.T) {
	out, err := run(t, "", "init", "--format", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)

	out, err = run(t, "", "init", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "# relex configuration")

	_, err = run(t, "", "init", "--format", "toml")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestLanguages(t *testing.T) {
	out, err := run(t, "", "languages")
	require.NoError(t, err)
	assert.Equal(t, "calc\nmarkdown\nplain\ntmpl\ntmpl-join\n", out)
}

func TestConfigShow(t *testing.T) {
	path := writeFile(t, "custom.yml", "check_invariants: true\nlanguages:\n  \"*.page\": tmpl\n")

	out, err := run(t, "", "--config", path, "--lazy", "config", "show")
	require.NoError(t, err)

	cfg, err := config.FromYAML([]byte(out))
	require.NoError(t, err)
	assert.True(t, cfg.CheckInvariants)
	assert.True(t, cfg.Lazy)
	assert.Equal(t, map[string]string{"*.page": "tmpl"}, cfg.Languages)
}

func TestConfigEnv(t *testing.T) {
	out, err := run(t, "", "config", "env")
	require.NoError(t, err)
	assert.Contains(t, out, "RELEX_LOG_LEVEL")
	assert.Contains(t, out, "RELEX_STRESS_SEED")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "relex")
	assert.Contains(t, out, "test-version")
	assert.Contains(t, out, "test-commit")
}

func TestReplay_Output(t *testing.T) {
	script := writeFile(t, "edits.yml", replayScript)
	output := filepath.Join(t.TempDir(), "result.tmpl")

	_, err := run(t, "", "replay", "--output", output, script)
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "axy%>b", string(got))
}
