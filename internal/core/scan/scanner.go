package scan

import (
	"os"

	"github.com/rs/zerolog"
)

// Scanner extracts comments from files on disk using a single dialect.
type Scanner struct {
	dialect Dialect
	logger  zerolog.Logger
}

// NewScanner creates a scanner for the given dialect.
func NewScanner(dialect Dialect, logger zerolog.Logger) *Scanner {
	return &Scanner{dialect: dialect, logger: logger}
}

// ScanFiles reads each path and extracts its comments. Files that cannot
// be read are logged and dropped; per-file failures never abort the batch.
// The returned map contains one entry for every path read successfully.
func (s *Scanner) ScanFiles(paths []string) FileCommentMap {
	result := make(FileCommentMap, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
			continue
		}

		comments := s.dialect.Scan(data)
		if comments == nil {
			// Keep the artifact shape a list even for comment-free files.
			comments = []Record{}
		}

		result[path] = FileComments{
			Size:     int64(len(data)),
			Comments: comments,
		}
	}

	return result
}
