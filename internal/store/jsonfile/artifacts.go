// Package jsonfile persists per-project comment data as JSON cache
// artifacts, one file per project.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/colonyops/quarry/internal/core/scan"
)

// ErrNotFound is returned when no artifact exists for a project.
var ErrNotFound = errors.New("artifact not found")

// ArtifactStore keeps one JSON file per project under dir. Artifact
// presence is the resume signal: a project whose artifact exists is
// considered done and must be skipped. Workers operating on distinct
// projects never touch the same file, so no locking is needed.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates a store rooted at dir. The directory is created
// lazily on first Save.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// Path returns the artifact file path for a project.
func (s *ArtifactStore) Path(project string) string {
	return filepath.Join(s.dir, project+".json")
}

// Has reports whether an artifact exists for the project. This is the
// idempotent-task completion check.
func (s *ArtifactStore) Has(project string) bool {
	_, err := os.Stat(s.Path(project))
	return err == nil
}

// Load reads and decodes the artifact for a project.
// Returns ErrNotFound if it does not exist.
func (s *ArtifactStore) Load(project string) (scan.FileCommentMap, error) {
	data, err := os.ReadFile(s.Path(project))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, project)
		}
		return nil, fmt.Errorf("read artifact %s: %w", project, err)
	}

	var m scan.FileCommentMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", project, err)
	}

	return m, nil
}

// Save writes the artifact for a project, creating the store directory if
// needed. Existing artifacts are overwritten.
func (s *ArtifactStore) Save(project string, m scan.FileCommentMap) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact %s: %w", project, err)
	}

	if err := os.WriteFile(s.Path(project), data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", project, err)
	}

	return nil
}

// Delete removes the artifact for a project so it will be reprocessed.
// Returns ErrNotFound if no artifact exists.
func (s *ArtifactStore) Delete(project string) error {
	err := os.Remove(s.Path(project))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, project)
	}
	return err
}

// List returns the project names of all stored artifacts, sorted.
func (s *ArtifactStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}

	sort.Strings(names)
	return names, nil
}
