// Package projects loads and writes the tabular project list.
package projects

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/colonyops/quarry/internal/core/metrics"
)

// MetricColumns are the computed columns appended to the table, in order.
var MetricColumns = []string{
	"src_files",
	"src_file_size",
	"comment_size",
	"doc_comment",
	"impl_comment",
}

// Project is one row of the table as seen by the pipeline.
type Project struct {
	Name     string
	Language string
	Index    int
}

// Table is a CSV-backed project list. Columns other than name and language
// pass through untouched so the written file stays a superset of the input.
type Table struct {
	header  []string
	rows    [][]string
	nameIdx int
	langIdx int
}

// Load reads a project table from a CSV file. The header must contain
// name and language columns.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project list: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse project list: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("project list %s is empty", path)
	}

	t := &Table{header: records[0], rows: records[1:], nameIdx: -1, langIdx: -1}
	for i, col := range t.header {
		switch col {
		case "name":
			t.nameIdx = i
		case "language":
			t.langIdx = i
		}
	}
	if t.nameIdx < 0 {
		return nil, fmt.Errorf("project list %s has no name column", path)
	}
	if t.langIdx < 0 {
		return nil, fmt.Errorf("project list %s has no language column", path)
	}

	return t, nil
}

// Len returns the number of project rows.
func (t *Table) Len() int { return len(t.rows) }

// Projects returns every row as a Project, in table order.
func (t *Table) Projects() []Project {
	out := make([]Project, len(t.rows))
	for i, row := range t.rows {
		out[i] = Project{Name: row[t.nameIdx], Language: row[t.langIdx], Index: i}
	}
	return out
}

// EnsureMetricColumns appends any missing metric columns to the header,
// initializing their cells to -1. Rows never processed keep the -1 marker
// in the written output. Calling it twice is a no-op.
func (t *Table) EnsureMetricColumns() {
	existing := make(map[string]bool, len(t.header))
	for _, col := range t.header {
		existing[col] = true
	}

	for _, col := range MetricColumns {
		if existing[col] {
			continue
		}
		t.header = append(t.header, col)
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], "-1")
		}
	}
}

// SetMetrics writes the computed metrics into row index. EnsureMetricColumns
// must have been called first.
func (t *Table) SetMetrics(index int, m metrics.ProjectMetrics) error {
	if index < 0 || index >= len(t.rows) {
		return fmt.Errorf("row %d out of range", index)
	}

	values := map[string]string{
		"src_files":     strconv.Itoa(m.SourceFiles),
		"src_file_size": strconv.FormatInt(m.SourceBytes, 10),
		"comment_size":  strconv.FormatInt(m.CommentBytes, 10),
		"doc_comment":   strconv.Itoa(m.DocComments),
		"impl_comment":  strconv.Itoa(m.ImplComments),
	}

	for i, col := range t.header {
		if v, ok := values[col]; ok {
			t.rows[index][i] = v
		}
	}
	return nil
}

// Save writes the table back to path in CSV form.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create project list: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(t.rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write rows: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush project list: %w", err)
	}

	return f.Close()
}
