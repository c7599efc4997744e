//go:build integration
// +build integration

package integration

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
)

// buildCollection writes a small two-file dataset to a temp directory and
// loads it the way the mirror command would.
func buildCollection(t *testing.T) *dataset.Collection {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"companies.csv": "id,name,revenue,active\n" +
			"1,Acme,1200.5,true\n" +
			"2,Globex,850.25,false\n" +
			"3,Initech,,true\n",
		"orders.csv": "order_id,company_id,amount\n" +
			"10,1,99.99\n" +
			"11,1,15\n" +
			"12,2,42.5\n" +
			"13,3,7.25\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	c, err := dataset.Load(dir)
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	if len(c.Errors) != 0 {
		t.Fatalf("Unexpected load errors: %v", c.Errors)
	}
	return c
}

// mirrorConfig maps the test dataset onto table names and declares one
// index per table.
func mirrorConfig() *config.Config {
	return &config.Config{
		Mirror: config.MirrorConfig{
			Tables: map[string]string{
				"companies.csv": "companies",
				"orders.csv":    "orders",
			},
			Indexes: []config.Index{
				{Name: "idx_companies_id", Table: "companies", Column: "id"},
				{Name: "idx_orders_company", Table: "orders", Column: "company_id"},
			},
		},
	}
}

// verifyCount checks the row count of a mirrored table.
func verifyCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&rows); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	if rows != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, rows)
	}
}
