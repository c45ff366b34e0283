package scan

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUnknownDialect is returned when no dialect is registered for a name.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect extracts comment records for one family of source languages.
// Implementations must return byte-exact, end-exclusive spans into src.
type Dialect interface {
	Name() string
	Scan(src []byte) []Record
}

var dialects = map[string]Dialect{
	"clike": CLike{},
}

// ForName returns the registered dialect for name.
func ForName(name string) (Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
	return d, nil
}

// Names returns the registered dialect names.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	return names
}

var (
	// Non-greedy, so the shortest valid span wins. An opening /* with no
	// later */ never matches and produces no record.
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
)

// CLike extracts /* */ block comments and // line comments, covering Java,
// JavaScript, and friends.
type CLike struct{}

func (CLike) Name() string { return "clike" }

// Scan runs the block and line passes independently over src and
// concatenates their results, blocks first. The combined output is not
// sorted by offset; records within each pass are. Scanning operates on raw
// bytes, so undecodable input degrades to byte-preserving extraction with
// offsets intact rather than failing the file.
func (CLike) Scan(src []byte) []Record {
	var records []Record

	for _, span := range blockComment.FindAllIndex(src, -1) {
		records = append(records, Record{
			Content: string(src[span[0]:span[1]]),
			Span:    [2]int{span[0], span[1]},
			Style:   StyleBlock,
		})
	}

	for _, span := range lineComment.FindAllIndex(src, -1) {
		records = append(records, Record{
			Content: string(src[span[0]:span[1]]),
			Span:    [2]int{span[0], span[1]},
			Style:   StyleLine,
		})
	}

	return records
}
