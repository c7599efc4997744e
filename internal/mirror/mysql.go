package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
)

// MySQLTarget mirrors a collection into a MySQL database.
type MySQLTarget struct {
	db *sql.DB
}

// NewMySQLTarget connects to MySQL. connString is the driver's DSN form,
// user:pass@tcp(host:port)/database.
func NewMySQLTarget(ctx context.Context, connString string) (*MySQLTarget, error) {
	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLTarget{db: db}, nil
}

// Close closes the database connection
func (t *MySQLTarget) Close(context.Context) error {
	return t.db.Close()
}

// DB returns the underlying database connection.
func (t *MySQLTarget) DB() *sql.DB {
	return t.db
}

func (t *MySQLTarget) CreateTable(ctx context.Context, table string, columns []Column) error {
	if _, err := t.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteBacktick(table)); err != nil {
		return err
	}
	_, err := t.db.ExecContext(ctx, mysqlCreateTableSQL(table, columns))
	return err
}

func (t *MySQLTarget) InsertRows(ctx context.Context, table string, columns []Column, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, columns, quoteBacktick, "?"))
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

func (t *MySQLTarget) CreateIndex(ctx context.Context, idx config.Index) error {
	_, err := t.db.ExecContext(ctx, createIndexSQL(idx, quoteBacktick))
	return err
}

func mysqlCreateTableSQL(table string, columns []Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteBacktick(col.Name) + " " + mysqlType(col.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteBacktick(table), strings.Join(defs, ", "))
}

func mysqlType(t dataset.ColumnType) string {
	switch t {
	case dataset.TypeInteger:
		return "BIGINT"
	case dataset.TypeFloat:
		return "DOUBLE"
	case dataset.TypeBoolean:
		return "TINYINT(1)"
	default:
		return "TEXT"
	}
}

func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
