// Package corpus discovers and deduplicates source files on disk.
package corpus

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
)

// HashMode selects how much of a file contributes to its digest.
type HashMode int

const (
	// PartialFirst1KiB digests at most the first 1024 bytes of the file.
	// Files shorter than that are digested in full, which is equivalent.
	PartialFirst1KiB HashMode = iota
	// FullContent streams the entire file through the digest.
	FullContent
)

// chunkSize bounds memory use when streaming full file contents.
const chunkSize = 1024

// Hash computes the SHA-1 digest of the file at path. Open and read
// failures (permissions, file vanished, symlink loops) are returned as-is;
// callers treat them as recoverable and drop the file from consideration.
func Hash(path string, mode HashMode) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha1.New()

	if mode == PartialFirst1KiB {
		if _, err := io.CopyN(h, f, chunkSize); err != nil && err != io.EOF {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return h.Sum(nil), nil
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	return h.Sum(nil), nil
}
