// Package mirror loads a dataset collection into a relational store so the
// files can be queried with SQL. Each file becomes one table, replaced on
// every run, with single-column indexes on the declared key columns.
package mirror

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
)

// Column describes one mirrored column: its CSV header name and the type
// observed during loading, which picks the SQL type per backend.
type Column struct {
	Name string
	Type dataset.ColumnType
}

// Target is one relational backend the mirror can load into.
type Target interface {
	// CreateTable replaces the named table with an empty one shaped after
	// the columns.
	CreateTable(ctx context.Context, table string, columns []Column) error

	// InsertRows bulk-loads raw CSV rows into the table. Empty cells become
	// SQL NULLs; other values are converted per the column type.
	InsertRows(ctx context.Context, table string, columns []Column, rows [][]string) error

	// CreateIndex creates a single-column index. Failing because the index
	// exists already is an expected outcome the caller tolerates.
	CreateIndex(ctx context.Context, idx config.Index) error

	Close(ctx context.Context) error
}

// TableLoad records one file landing in the store.
type TableLoad struct {
	File  string
	Table string
	Rows  int
}

// SkippedIndex records an index that could not be created. Index failures
// never abort a load.
type SkippedIndex struct {
	Name string
	Err  error
}

// Summary is the outcome of one mirror run.
type Summary struct {
	Tables         []TableLoad
	Indexes        []string
	SkippedIndexes []SkippedIndex
}

// Open connects to the store named by a database URL. Supported schemes are
// postgres:// (also postgresql://), mysql://, and sqlite://.
func Open(ctx context.Context, databaseURL string) (Target, error) {
	kind, connStr, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "postgres":
		return NewPostgresTarget(ctx, connStr)
	case "mysql":
		return NewMySQLTarget(ctx, connStr)
	case "sqlite":
		return NewSQLiteTarget(ctx, connStr)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", kind)
	}
}

// parseDatabaseURL detects the backend and returns its connection string.
func parseDatabaseURL(url string) (kind, connectionStr string, err error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return "postgres", url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		connectionStr := strings.TrimPrefix(url, "mysql://")
		return "mysql", connectionStr, nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		// Strip sqlite:// prefix to get file path
		filePath := strings.TrimPrefix(url, "sqlite://")
		return "sqlite", filePath, nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}

// Mirror opens the store, loads every table in the collection, and creates
// the configured indexes.
func Mirror(ctx context.Context, c *dataset.Collection, cfg *config.Config, databaseURL string) (*Summary, error) {
	target, err := Open(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = target.Close(ctx) }()

	return MirrorTo(ctx, target, c, cfg)
}

// MirrorTo loads the collection into an already-open target. Tables are
// replaced, not appended to. Index creation failures are collected in the
// summary instead of aborting, since reruns hit existing indexes.
func MirrorTo(ctx context.Context, target Target, c *dataset.Collection, cfg *config.Config) (*Summary, error) {
	summary := &Summary{}

	for _, t := range c.Tables {
		table := cfg.MirrorTableName(t.Name)
		columns := columnsOf(t)

		if err := target.CreateTable(ctx, table, columns); err != nil {
			return summary, fmt.Errorf("create table %s for %s: %w", table, t.Name, err)
		}
		if err := target.InsertRows(ctx, table, columns, t.Rows); err != nil {
			return summary, fmt.Errorf("load %s into %s: %w", t.Name, table, err)
		}
		summary.Tables = append(summary.Tables, TableLoad{File: t.Name, Table: table, Rows: t.RowCount()})
	}

	for _, idx := range cfg.Mirror.Indexes {
		if err := target.CreateIndex(ctx, idx); err != nil {
			summary.SkippedIndexes = append(summary.SkippedIndexes, SkippedIndex{Name: idx.Name, Err: err})
			continue
		}
		summary.Indexes = append(summary.Indexes, idx.Name)
	}
	return summary, nil
}

func columnsOf(t *dataset.Table) []Column {
	columns := make([]Column, len(t.Header))
	for i, name := range t.Header {
		columns[i] = Column{Name: name, Type: t.Types[i]}
	}
	return columns
}

// typedValue converts one raw CSV cell for insertion. Empty cells are NULLs.
// A value that unexpectedly fails to parse passes through as text rather
// than killing the load.
func typedValue(v string, t dataset.ColumnType) any {
	if v == "" {
		return nil
	}
	switch t {
	case dataset.TypeInteger:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case dataset.TypeFloat:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case dataset.TypeBoolean:
		return strings.EqualFold(v, "true")
	}
	return v
}

func rowValues(columns []Column, row []string) []any {
	values := make([]any, len(columns))
	for i, col := range columns {
		values[i] = typedValue(row[i], col.Type)
	}
	return values
}
