package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
)

// SQLiteTarget mirrors a collection into a SQLite database file.
type SQLiteTarget struct {
	db *sql.DB
}

// NewSQLiteTarget opens (or creates) the database file at path.
func NewSQLiteTarget(ctx context.Context, path string) (*SQLiteTarget, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteTarget{db: db}, nil
}

// Close closes the database connection
func (t *SQLiteTarget) Close(context.Context) error {
	return t.db.Close()
}

// DB returns the underlying database connection.
func (t *SQLiteTarget) DB() *sql.DB {
	return t.db
}

func (t *SQLiteTarget) CreateTable(ctx context.Context, table string, columns []Column) error {
	if _, err := t.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return err
	}
	_, err := t.db.ExecContext(ctx, sqliteCreateTableSQL(table, columns))
	return err
}

func (t *SQLiteTarget) InsertRows(ctx context.Context, table string, columns []Column, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, columns, quoteIdent, "?"))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, rowValues(columns, row)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (t *SQLiteTarget) CreateIndex(ctx context.Context, idx config.Index) error {
	_, err := t.db.ExecContext(ctx, createIndexSQL(idx, quoteIdent))
	return err
}

// sqliteCreateTableSQL builds the CREATE TABLE statement. Booleans land as
// INTEGER, which is how SQLite stores them anyway.
func sqliteCreateTableSQL(table string, columns []Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col.Name) + " " + sqliteType(col.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
}

func sqliteType(t dataset.ColumnType) string {
	switch t {
	case dataset.TypeInteger, dataset.TypeBoolean:
		return "INTEGER"
	case dataset.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// quoteIdent double-quotes an identifier, escaping embedded quotes. Used by
// the SQLite and PostgreSQL targets.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// insertSQL builds a parameterized INSERT for backends that take one row
// per execution. placeholder is "?" for database/sql drivers.
func insertSQL(table string, columns []Column, quote func(string) string, placeholder string) string {
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		names[i] = quote(col.Name)
		marks[i] = placeholder
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(names, ", "), strings.Join(marks, ", "))
}

// createIndexSQL builds the plain CREATE INDEX statement. No IF NOT EXISTS:
// an existing index is reported and tolerated upstream.
func createIndexSQL(idx config.Index, quote func(string) string) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
		quote(idx.Name), quote(idx.Table), quote(idx.Column))
}
