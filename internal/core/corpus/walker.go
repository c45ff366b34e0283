package corpus

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Walk recursively enumerates every regular file under root whose name ends
// with suffix, in directory-traversal order. Directories and files whose
// root-relative path matches one of the ignore globs are skipped, as are
// entries that cannot be read. Traversal order is not guaranteed stable
// across platforms and is not semantically significant.
func Walk(root, suffix string, ignore []string) []string {
	var result []string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are dropped, never fatal.
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && rel != "." && matchesAny(ignore, filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) {
			result = append(result, path)
		}
		return nil
	})

	return result
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
