package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/fsutil"
)

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("a<%x%>b"))
	f.Add([]byte("\x00\xff\n"))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "fuzz.txt")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, content, 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, content, got)
	})
}
