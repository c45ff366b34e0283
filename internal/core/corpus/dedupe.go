package corpus

import (
	"os"
	"path/filepath"
)

// Dedupe returns the subset of paths representing distinct file contents.
// For true duplicates the first file in input order wins.
//
// Three escalating tiers keep full-content hashing off the common path:
//
//  1. Resolve symlinks and bucket by byte size. A unique size implies
//     unique content, so singleton buckets are accepted without any read.
//  2. Bucket size collisions by the digest of their first 1 KiB. Singleton
//     buckets skip full hashing.
//  3. Fully hash the remaining collisions; within each full-digest bucket
//     only the first file encountered survives.
//
// Files that cannot be resolved, stat'd, or read at any tier are silently
// dropped. A file changing on disk between tiers may be misjudged; that
// race is accepted.
func Dedupe(paths []string) []string {
	var result []string

	bySize := make(map[int64][]string)
	var sizeOrder []int64

	for _, path := range paths {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			continue
		}
		info, err := os.Stat(resolved)
		if err != nil {
			continue
		}

		size := info.Size()
		if _, ok := bySize[size]; !ok {
			sizeOrder = append(sizeOrder, size)
		}
		bySize[size] = append(bySize[size], resolved)
	}

	// For all files sharing a size, bucket by the hash of the first 1 KiB.
	byPartial := make(map[string][]string)
	var partialOrder []string

	for _, size := range sizeOrder {
		files := bySize[size]
		if len(files) < 2 {
			result = append(result, files...)
			continue
		}

		for _, file := range files {
			digest, err := Hash(file, PartialFirst1KiB)
			if err != nil {
				continue
			}

			key := string(digest)
			if _, ok := byPartial[key]; !ok {
				partialOrder = append(partialOrder, key)
			}
			byPartial[key] = append(byPartial[key], file)
		}
	}

	// Full-content hash only for partial-digest collisions.
	seenFull := make(map[string]struct{})

	for _, key := range partialOrder {
		files := byPartial[key]
		if len(files) < 2 {
			result = append(result, files...)
			continue
		}

		for _, file := range files {
			digest, err := Hash(file, FullContent)
			if err != nil {
				continue
			}

			full := string(digest)
			if _, ok := seenFull[full]; ok {
				continue
			}
			seenFull[full] = struct{}{}
			result = append(result, file)
		}
	}

	return result
}
