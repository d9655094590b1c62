package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/relex/internal/logging"
	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/langs/calc"
	"github.com/yaklabco/relex/pkg/lexer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warn level", "warn", log.WarnLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to info", "invalid", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
		{"case insensitive Info", "Info", log.InfoLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(testCase.level)
			if logger == nil {
				t.Fatal("New returned nil logger")
			}

			if logger.GetLevel() != testCase.expected {
				t.Errorf("expected level %v, got %v", testCase.expected, logger.GetLevel())
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	logger := logging.Default()
	if logger == nil {
		t.Fatal("Default returned nil logger")
	}
}

func TestSetLevel(t *testing.T) {
	// Not parallel because it modifies global state.

	// Save original and restore after test.
	original := logging.Default()
	defer logging.SetDefault(original)

	// Create a fresh logger for testing.
	testLogger := logging.New("info")
	logging.SetDefault(testLogger)

	logging.SetLevel("debug")
	if logging.Default().GetLevel() != log.DebugLevel {
		t.Error("SetLevel to debug failed")
	}

	logging.SetLevel("error")
	if logging.Default().GetLevel() != log.ErrorLevel {
		t.Error("SetLevel to error failed")
	}
}

func TestSetDefault(t *testing.T) {
	// Not parallel because it modifies global state.

	original := logging.Default()
	defer logging.SetDefault(original)

	newLogger := logging.New("error")
	logging.SetDefault(newLogger)

	if logging.Default() != newLogger {
		t.Error("SetDefault did not change the default logger")
	}
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	if logger == nil {
		t.Fatal("NewInteractive returned nil logger")
	}

	// Interactive loggers should default to info level
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("expected info level, got %v", logger.GetLevel())
	}
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")
	sink := logging.Diagnostics(logger)

	h := lexer.New(document.New("a b"), calc.New(), lexer.Options{Diagnostics: sink})
	snap := h.Snapshot()
	snap.Release()

	if !strings.Contains(buf.String(), "snapshot created") {
		t.Errorf("expected engine debug output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "lexer") {
		t.Errorf("expected lexer prefix, got %q", buf.String())
	}
}

func TestDiagnosticsBelowDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := logging.Diagnostics(logging.NewWithWriter(&buf, "info"))
	sink.Debug("hidden", "key", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}

	// A nil logger yields the no-op sink.
	logging.Diagnostics(nil).Debug("discarded")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	if logging.ParseLevel(" Warning ") != log.WarnLevel {
		t.Error("expected warn level")
	}
	if logging.ParseLevel("verbose") != log.InfoLevel {
		t.Error("expected unknown level to map to info")
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")
	ctx := logging.WithLogger(context.Background(), logger)

	if got := logging.FromContext(ctx); got != logger {
		t.Fatalf("FromContext() = %p, want the attached logger %p", got, logger)
	}
	logging.FromContext(ctx).Debug("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("output %q lacks the message", buf.String())
	}

	if got := logging.FromContext(context.Background()); got != logging.Default() {
		t.Error("FromContext() without a logger should return Default()")
	}
	if got := logging.FromContext(logging.WithLogger(context.Background(), nil)); got != logging.Default() {
		t.Error("FromContext() with a nil logger should return Default()")
	}
}
