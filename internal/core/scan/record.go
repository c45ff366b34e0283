// Package scan extracts comment records from raw source text.
//
// Extraction is lexical, not syntactic: delimiter sequences inside string
// or character literals are treated as real comments. That false positive
// is accepted.
package scan

import "slices"

// Style classifies a comment by its delimiter form.
type Style int

const (
	// StyleBlock is a delimited comment such as /* ... */.
	StyleBlock Style = iota
	// StyleLine is a comment running from its marker to end of line.
	StyleLine
)

// Record is one comment found in a source file. Content includes the
// delimiters. Span holds end-exclusive byte offsets into the source, so
// Content == src[Span[0]:Span[1]]. Style is derived from the detection
// pass and is not part of the persisted artifact shape.
type Record struct {
	Content string `json:"content"`
	Span    [2]int `json:"span"`
	Style   Style  `json:"-"`
}

// FileComments holds everything extracted from a single file.
type FileComments struct {
	Size     int64    `json:"size"`
	Comments []Record `json:"comments"`
}

// FileCommentMap maps file paths to their extracted comments. It is the
// unit of cache persistence; each project-processing run owns exactly one.
type FileCommentMap map[string]FileComments

// Sorted returns the records ordered by start offset. Scan output is the
// raw concatenation of the block and line passes and is NOT offset-sorted;
// consumers that need positional order must use this.
func Sorted(records []Record) []Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		return a.Span[0] - b.Span[0]
	})
	return out
}
