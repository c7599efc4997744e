//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"csvaudit/internal/config"
	"csvaudit/internal/mirror"
	_ "github.com/mattn/go-sqlite3"
)

func TestSQLiteMirror(t *testing.T) {
	ctx := context.Background()

	// Use environment variable if set, otherwise mirror into a scratch file
	dbPath := os.Getenv("SQLITE_TEST_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(t.TempDir(), "audit_test.db")
	}

	c := buildCollection(t)
	summary, err := mirror.Mirror(ctx, c, mirrorConfig(), "sqlite://"+dbPath)
	if err != nil {
		t.Fatalf("Failed to mirror into SQLite: %v", err)
	}
	if len(summary.Tables) != 2 || len(summary.Indexes) != 2 || len(summary.SkippedIndexes) != 0 {
		t.Fatalf("Unexpected mirror summary: %+v", summary)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open mirrored database: %v", err)
	}
	defer db.Close()

	verifyCount(t, db, "companies", 3)
	verifyCount(t, db, "orders", 4)

	// Verify typed storage: integers, floats, and booleans stored as numbers
	var idType, revenueType, activeType string
	row := db.QueryRow("SELECT typeof(id), typeof(revenue), typeof(active) FROM companies WHERE id = 1")
	if err := row.Scan(&idType, &revenueType, &activeType); err != nil {
		t.Fatalf("Failed to read typed row: %v", err)
	}
	if idType != "integer" || revenueType != "real" || activeType != "integer" {
		t.Errorf("Expected integer/real/integer storage, got %s/%s/%s", idType, revenueType, activeType)
	}

	// Verify empty CSV cells mirror as NULL
	var revenue sql.NullFloat64
	if err := db.QueryRow("SELECT revenue FROM companies WHERE id = 3").Scan(&revenue); err != nil {
		t.Fatalf("Failed to read null cell: %v", err)
	}
	if revenue.Valid {
		t.Errorf("Expected NULL revenue, got %v", revenue.Float64)
	}

	// Verify indexes exist
	var indexCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%'").Scan(&indexCount)
	if err != nil {
		t.Fatalf("Failed to count indexes: %v", err)
	}
	if indexCount != 2 {
		t.Errorf("Expected 2 indexes, got %d", indexCount)
	}
}

func TestSQLiteMirrorRerun(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "audit_test.db")
	c := buildCollection(t)
	cfg := mirrorConfig()

	if _, err := mirror.Mirror(ctx, c, cfg, "sqlite://"+dbPath); err != nil {
		t.Fatalf("First mirror run failed: %v", err)
	}

	// Rerun with one unbuildable index; the run must finish and record it
	cfg.Mirror.Indexes = append(cfg.Mirror.Indexes, config.Index{
		Name: "idx_missing", Table: "companies", Column: "no_such_column",
	})
	summary, err := mirror.Mirror(ctx, c, cfg, "sqlite://"+dbPath)
	if err != nil {
		t.Fatalf("Second mirror run failed: %v", err)
	}
	if len(summary.SkippedIndexes) != 1 || summary.SkippedIndexes[0].Name != "idx_missing" {
		t.Errorf("Expected idx_missing to be skipped, got %+v", summary.SkippedIndexes)
	}
	if len(summary.Indexes) != 2 {
		t.Errorf("Expected 2 created indexes, got %v", summary.Indexes)
	}

	// Tables are replaced, not appended to
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open mirrored database: %v", err)
	}
	defer db.Close()

	verifyCount(t, db, "companies", 3)
	verifyCount(t, db, "orders", 4)
}
