package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"csvaudit/internal/analysis"
)

// Detail file names, stable so downstream notebooks can rely on them.
const (
	RelationshipDetailFile = "relationship_analysis.csv"
	CoverageDetailFile     = "data_coverage_analysis.csv"
)

// WriteDetails persists the per-relationship and per-column detail as CSV
// files under dir, clearing any CSV output left by a previous run first.
func WriteDetails(res *analysis.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	if err := clearCSVFiles(dir); err != nil {
		return err
	}

	if err := writeRelationshipDetail(res, filepath.Join(dir, RelationshipDetailFile)); err != nil {
		return err
	}
	return writeCoverageDetail(res, filepath.Join(dir, CoverageDetailFile))
}

// clearCSVFiles removes stale detail files so a shrunk dataset never leaves
// rows from an older run behind.
func clearCSVFiles(dir string) error {
	stale, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("clear previous output %s: %w", path, err)
		}
	}
	return nil
}

func writeRelationshipDetail(res *analysis.Result, path string) error {
	rows := [][]string{{
		"parent_table", "parent_key", "child_table", "child_key",
		"parent_unique_values", "child_total_refs", "valid_refs", "invalid_refs",
		"referential_integrity_pct", "relationship_type",
	}}
	for _, rel := range res.Relationships {
		rows = append(rows, []string{
			rel.ParentTable,
			rel.ParentKey,
			rel.ChildTable,
			rel.ChildKey,
			strconv.Itoa(rel.ParentUniqueValues),
			strconv.Itoa(rel.ChildTotalRefs),
			strconv.Itoa(rel.ValidRefs),
			strconv.Itoa(rel.InvalidRefs),
			formatFloat(rel.IntegrityPct),
			rel.Type,
		})
	}
	return writeCSV(path, rows)
}

func writeCoverageDetail(res *analysis.Result, path string) error {
	rows := [][]string{{
		"table", "column", "total_rows", "null_count", "null_percentage",
		"unique_values", "data_type",
	}}
	for _, c := range res.Coverage {
		rows = append(rows, []string{
			c.Table,
			c.Column,
			strconv.Itoa(c.TotalRows),
			strconv.Itoa(c.NullCount),
			formatFloat(c.NullPct),
			strconv.Itoa(c.UniqueValues),
			c.DataType.String(),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
