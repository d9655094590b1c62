package stress_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/stress"
)

func TestSaveFailures(t *testing.T) {
	t.Parallel()

	res := &stress.Result{
		Seed: 5,
		Failures: []*stress.Failure{
			{Iteration: 3, Step: 1, Initial: "a", Edits: []document.TextEdit{{StartOffset: 0, EndOffset: 1, NewText: "b"}}},
			{Iteration: 8, Step: 2, Initial: "<%x%>"},
		},
	}
	dir := filepath.Join(t.TempDir(), "failures")

	paths, err := stress.SaveFailures(context.Background(), dir, res, "tmpl")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "tmpl-seed5-doc3.yml"),
		filepath.Join(dir, "tmpl-seed5-doc8.yml"),
	}, paths)

	script, err := document.LoadScript(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "tmpl", script.Language)
	require.NotNil(t, script.Text)
	assert.Equal(t, "a", *script.Text)
	assert.Equal(t, res.Failures[0].Edits, script.Edits)
}

func TestSaveFailures_None(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "never")
	paths, err := stress.SaveFailures(context.Background(), dir, &stress.Result{}, "calc")
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.NoDirExists(t, dir)
}
