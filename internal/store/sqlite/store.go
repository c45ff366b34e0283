// Package sqlite persists computed project metrics for later querying.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/colonyops/quarry/internal/core/metrics"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no metrics row exists for a project.
var ErrNotFound = errors.New("metrics not found")

// Record is one stored metrics row.
type Record struct {
	Name      string
	Language  string
	Metrics   metrics.ProjectMetrics
	UpdatedAt time.Time
}

// MetricsStore keeps per-project metrics inside a SQLite database.
type MetricsStore struct {
	db *sql.DB
}

// Open initializes (or reuses) the metrics database at the provided path.
func Open(path string, busyTimeout time.Duration) (*MetricsStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open metrics database: %w", err)
	}

	store := &MetricsStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the underlying database resources.
func (s *MetricsStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *MetricsStore) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS project_metrics (
        name TEXT PRIMARY KEY,
        language TEXT NOT NULL,
        src_files INTEGER NOT NULL,
        src_file_size INTEGER NOT NULL,
        comment_size INTEGER NOT NULL,
        doc_comment INTEGER NOT NULL,
        impl_comment INTEGER NOT NULL,
        updated_at INTEGER NOT NULL
);
`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the metrics row for a project.
func (s *MetricsStore) Upsert(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO project_metrics (name, language, src_files, src_file_size, comment_size, doc_comment, impl_comment, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
        language = excluded.language,
        src_files = excluded.src_files,
        src_file_size = excluded.src_file_size,
        comment_size = excluded.comment_size,
        doc_comment = excluded.doc_comment,
        impl_comment = excluded.impl_comment,
        updated_at = excluded.updated_at
`

	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		rec.Name,
		rec.Language,
		rec.Metrics.SourceFiles,
		rec.Metrics.SourceBytes,
		rec.Metrics.CommentBytes,
		rec.Metrics.DocComments,
		rec.Metrics.ImplComments,
		updatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("upsert metrics for %s: %w", rec.Name, err)
	}

	return nil
}

// Get returns the metrics row for a project. Returns ErrNotFound if absent.
func (s *MetricsStore) Get(ctx context.Context, name string) (Record, error) {
	const query = `
SELECT name, language, src_files, src_file_size, comment_size, doc_comment, impl_comment, updated_at
FROM project_metrics WHERE name = ?
`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get metrics for %s: %w", name, err)
	}

	return rec, nil
}

// List returns all stored metrics rows ordered by project name.
func (s *MetricsStore) List(ctx context.Context) ([]Record, error) {
	const query = `
SELECT name, language, src_files, src_file_size, comment_size, doc_comment, impl_comment, updated_at
FROM project_metrics ORDER BY name
`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan metrics row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		updatedAt int64
	)

	err := row.Scan(
		&rec.Name,
		&rec.Language,
		&rec.Metrics.SourceFiles,
		&rec.Metrics.SourceBytes,
		&rec.Metrics.CommentBytes,
		&rec.Metrics.DocComments,
		&rec.Metrics.ImplComments,
		&updatedAt,
	)
	if err != nil {
		return Record{}, err
	}

	rec.UpdatedAt = time.Unix(0, updatedAt)
	return rec, nil
}
