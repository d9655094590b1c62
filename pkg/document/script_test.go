package document_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/document"
)

func TestParseScript(t *testing.T) {
	t.Parallel()

	src := `
language: tmpl
text: "a<%x%>b"
edits:
  - {start: 1, end: 1, text: "c"}
  - {start: 2, end: 4}
`
	script, err := document.ParseScript([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "tmpl", script.Language)
	require.NotNil(t, script.Text)
	assert.Equal(t, "a<%x%>b", *script.Text)
	assert.Equal(t, []document.TextEdit{
		{StartOffset: 1, EndOffset: 1, NewText: "c"},
		{StartOffset: 2, EndOffset: 4},
	}, script.Edits)
}

func TestParseScriptErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown field", src: "edits: []\nspeed: 3\n"},
		{name: "wrong type", src: "edits: {start: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := document.ParseScript([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptyScript(t *testing.T) {
	t.Parallel()

	script, err := document.ParseScript(nil)
	require.NoError(t, err)
	assert.Empty(t, script.Edits)
	assert.Nil(t, script.Text)
}

func TestScriptRoundTrip(t *testing.T) {
	t.Parallel()

	b := document.NewEditBuilder().Insert(0, "x").Delete(1, 2).ReplaceRange(0, 1, "yz")
	script := &document.Script{Language: "calc", Edits: b.Edits}

	data, err := script.ToYAML()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "edits.yml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := document.LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, script, loaded)
}

func TestLoadScriptMissingFile(t *testing.T) {
	t.Parallel()

	_, err := document.LoadScript(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
