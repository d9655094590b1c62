package stress

import (
	"context"
	"fmt"

	"github.com/yaklabco/relex/pkg/fsutil"
)

// FailureName is the file name a failure's replay script is saved under.
func FailureName(lang string, seed uint64, f *Failure) string {
	return fmt.Sprintf("%s-seed%d-doc%d.yml", lang, seed, f.Iteration)
}

// SaveFailures writes a replay script for every failure of res into dir and
// returns the written paths.
func SaveFailures(ctx context.Context, dir string, res *Result, lang string) ([]string, error) {
	paths := make([]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		data, err := f.Script(lang).ToYAML()
		if err != nil {
			return paths, err
		}
		path, err := fsutil.WriteInDir(ctx, dir, FailureName(lang, res.Seed, f), data)
		if err != nil {
			return paths, fmt.Errorf("save failure %d: %w", f.Iteration, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
