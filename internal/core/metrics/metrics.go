// Package metrics reduces extracted comment data to project-level counters.
package metrics

import (
	"strings"

	"github.com/colonyops/quarry/internal/core/scan"
)

// ProjectMetrics are the derived per-project counters. They are always
// recomputed from a full FileCommentMap; there is no incremental update.
type ProjectMetrics struct {
	SourceFiles  int   `json:"src_files"`
	SourceBytes  int64 `json:"src_file_size"`
	CommentBytes int64 `json:"comment_size"`
	DocComments  int   `json:"doc_comment"`
	ImplComments int   `json:"impl_comment"`
}

// IsDoc reports whether a comment is a documentation comment: a block
// comment whose content starts with /**. Line comments never qualify.
func IsDoc(content string) bool {
	return strings.HasPrefix(content, "/**")
}

// Aggregate computes ProjectMetrics from a FileCommentMap. It is a pure
// reduction: file count is the number of entries, byte totals are summed,
// and each comment is classified by IsDoc.
func Aggregate(m scan.FileCommentMap) ProjectMetrics {
	pm := ProjectMetrics{SourceFiles: len(m)}

	for _, fc := range m {
		pm.SourceBytes += fc.Size
		for _, c := range fc.Comments {
			pm.CommentBytes += int64(len(c.Content))
			if IsDoc(c.Content) {
				pm.DocComments++
			} else {
				pm.ImplComments++
			}
		}
	}

	return pm
}
