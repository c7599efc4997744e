package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csvaudit"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenAnalyzeSampleFlow(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()

	if _, err := execute(t, "gen", "--data-dir", dataDir, "--seed", "3"); err != nil {
		t.Fatalf("gen: %v", err)
	}

	out, err := execute(t, "analyze", "--data-dir", dataDir, "--out-dir", outDir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "DATASET RELATIONSHIP AUDIT") {
		t.Error("analyze digest missing")
	}
	if _, err := os.Stat(filepath.Join(outDir, reportFileName)); err != nil {
		t.Errorf("report not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "relationship_analysis.csv")); err != nil {
		t.Errorf("detail file not written: %v", err)
	}

	sampleDir := t.TempDir()
	out, err = execute(t, "sample", "--data-dir", dataDir, "--out-dir", sampleDir)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if !strings.Contains(out, "copy_") {
		t.Errorf("default-sized fixture should be copied whole:\n%s", out)
	}
}

func TestAnalyzeMissingDirectory(t *testing.T) {
	if _, err := execute(t, "analyze", "--data-dir", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing data directory should fail")
	}
}

func TestInitWritesStarterConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.json")
	if _, err := execute(t, "init", "--path", path); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, err := csvaudit.LoadConfig(path)
	if err != nil {
		t.Fatalf("starter config does not round-trip: %v", err)
	}
	if len(cfg.Relationships) == 0 {
		t.Error("starter config has no relationships")
	}

	if _, err := execute(t, "init", "--path", path); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("CSVAUDIT_TEST_KEY", "from-env")
	if got := envOr("CSVAUDIT_TEST_KEY", "fallback"); got != "from-env" {
		t.Errorf("envOr set = %q", got)
	}
	if got := envOr("CSVAUDIT_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("envOr missing = %q", got)
	}
}
