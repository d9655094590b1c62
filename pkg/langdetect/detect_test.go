package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/config"
	"github.com/yaklabco/relex/pkg/langdetect"
	"github.com/yaklabco/relex/pkg/langs"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Languages = map[string]string{
		"*.page":       "tmpl-join",
		"docs/*.notes": "markdown",
	}
	detector := langdetect.New(langs.NewRegistry(), cfg)

	tests := []struct {
		name       string
		path       string
		content    string
		wantLang   string
		wantSource langdetect.Source
	}{
		{name: "config glob on base name", path: "site/home.page", wantLang: "tmpl-join", wantSource: langdetect.SourceConfig},
		{name: "config glob on path", path: "docs/a.notes", wantLang: "markdown", wantSource: langdetect.SourceConfig},
		{name: "registered name", path: "sum.calc", wantLang: "calc", wantSource: langdetect.SourceExtension},
		{name: "registered alias", path: "README.md", wantLang: "markdown", wantSource: langdetect.SourceExtension},
		{name: "text alias", path: "notes.txt", wantLang: "plain", wantSource: langdetect.SourceExtension},
		{name: "linguist extension", path: "guide.mdown", wantLang: "markdown", wantSource: langdetect.SourceLinguist},
		{name: "template content", path: "page.unknown", content: "a<%x%>", wantLang: "tmpl", wantSource: langdetect.SourceContent},
		{name: "fallback", path: "Makefile.in2", content: "all: x", wantLang: "plain", wantSource: langdetect.SourceDefault},
		{name: "no extension", path: "LICENSE", wantLang: "plain", wantSource: langdetect.SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := detector.Detect(tt.path, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLang, got.Language.Name())
			assert.Equal(t, tt.wantSource, got.Source)
		})
	}
}

func TestDetect_NilConfig(t *testing.T) {
	t.Parallel()

	got, err := langdetect.New(langs.NewRegistry(), nil).Detect("a.expr", nil)
	require.NoError(t, err)
	assert.Equal(t, "calc", got.Language.Name())
}

func TestDetect_UnknownConfiguredLanguage(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Languages = map[string]string{"*.x": "cobol"}
	_, err := langdetect.New(langs.NewRegistry(), cfg).Detect("a.x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown language "cobol"`)
}
