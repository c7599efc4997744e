package csvaudit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
	"csvaudit/internal/fixture"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"companies.csv": "company_id,company_name,partition_date\n" +
			"1,Acme,2024-01-01\n" +
			"2,Globex,2024-01-08\n" +
			"3,Initech,2024-01-15\n",
		"contacts.csv": "employment_id,company_id,revenue\n" +
			"10,1,5.5\n" +
			"11,2,not-a-number\n" +
			"12,9,7.25\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func datasetConfig() *config.Config {
	return &config.Config{
		Schemas: map[string]map[string]string{
			"contacts.csv": {
				"employment_id": "integer",
				"revenue":       "float",
			},
		},
		Relationships: []config.Relationship{
			{ParentTable: "companies.csv", ParentKey: "company_id", ChildTable: "contacts.csv", ChildKey: "company_id"},
		},
	}
}

func TestAnalyzeAndReport(t *testing.T) {
	dataDir := writeDataset(t)
	outDir := t.TempDir()

	var digest bytes.Buffer
	opts := &ReportOptions{
		ReportPath: filepath.Join(outDir, "analysis", "dataset_summary_statistics.md"),
		DetailDir:  filepath.Join(outDir, "analysis"),
		ExcelPath:  filepath.Join(outDir, "analysis", "dataset_summary.xlsx"),
		JSONPath:   filepath.Join(outDir, "analysis", "audit.json"),
		Summary:    &digest,
	}
	if err := AnalyzeAndReport(dataDir, datasetConfig(), opts); err != nil {
		t.Fatalf("AnalyzeAndReport: %v", err)
	}

	md, err := os.ReadFile(opts.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{
		"# Dataset Summary Statistics",
		"| companies.csv | 3 | 3 |",
		": 66.67% integrity (2/3 valid, foreign_key)",
		"revenue: expected numeric, got text",
	} {
		if !strings.Contains(string(md), want) {
			t.Errorf("report missing %q", want)
		}
	}

	if !strings.Contains(digest.String(), "DATASET RELATIONSHIP AUDIT") {
		t.Error("summary digest not written")
	}

	rels := readDetailCSV(t, filepath.Join(opts.DetailDir, "relationship_analysis.csv"))
	if len(rels) != 2 {
		t.Fatalf("relationship detail rows = %d, want header plus one", len(rels))
	}
	if rels[1][0] != "companies.csv" || rels[1][8] != "66.67" {
		t.Errorf("unexpected relationship row %v", rels[1])
	}
	if _, err := os.Stat(filepath.Join(opts.DetailDir, "data_coverage_analysis.csv")); err != nil {
		t.Errorf("coverage detail: %v", err)
	}

	info, err := os.Stat(opts.ExcelPath)
	if err != nil || info.Size() == 0 {
		t.Errorf("workbook not written: %v", err)
	}

	var dump struct {
		RunID  string `json:"run_id"`
		Tables []struct {
			File string `json:"file"`
		} `json:"tables"`
	}
	raw, err := os.ReadFile(opts.JSONPath)
	if err != nil {
		t.Fatalf("read JSON dump: %v", err)
	}
	if err := json.Unmarshal(raw, &dump); err != nil {
		t.Fatalf("parse JSON dump: %v", err)
	}
	if dump.RunID == "" {
		t.Error("JSON dump missing run_id")
	}
	if len(dump.Tables) != 2 {
		t.Errorf("JSON dump tables = %d, want 2", len(dump.Tables))
	}
}

func readDetailCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestAnalyzeUsesBuiltinConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := fixture.Generate(dir, fixture.Options{Seed: 7}); err != nil {
		t.Fatalf("generate fixture: %v", err)
	}

	res, err := Analyze(dir, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(res.Tables) != 7 {
		t.Errorf("tables = %d, want 7", len(res.Tables))
	}
	if len(res.Skipped) != 0 {
		t.Errorf("skipped relationships = %v, want none", res.Skipped)
	}
	if len(res.Relationships) != len(DefaultConfig().Relationships) {
		t.Errorf("relationships = %d, want %d", len(res.Relationships), len(DefaultConfig().Relationships))
	}
	if res.Policy.StrongIntegrityPct != 80 || res.Policy.HighNullPct != 30 {
		t.Errorf("unexpected policy %+v", res.Policy)
	}
	for _, s := range res.Tables {
		if len(s.Mismatches) != 0 {
			t.Errorf("%s: unexpected mismatches %v", s.File, s.Mismatches)
		}
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := Analyze(filepath.Join(t.TempDir(), "nope"), nil); !errors.Is(err, dataset.ErrDirectoryNotFound) {
		t.Errorf("missing directory: got %v", err)
	}

	dir := writeDataset(t)
	bad := datasetConfig()
	bad.Schemas["contacts.csv"]["revenue"] = "float64"
	if _, err := Analyze(dir, bad); err == nil {
		t.Error("invalid type label should fail validation")
	}
}

func TestWriteReportsSummaryOnly(t *testing.T) {
	res, err := Analyze(writeDataset(t), datasetConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteReports(res, &ReportOptions{Summary: &buf}); err != nil {
		t.Fatalf("WriteReports: %v", err)
	}
	if !strings.Contains(buf.String(), "Total files: 2") {
		t.Errorf("digest missing file count:\n%s", buf.String())
	}
}

func TestLoadConfigDefaultsThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.json")
	body := `{"schemas":{"a.csv":{"id":"integer"}}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Report.StrongIntegrityPct != 80 || cfg.Report.HighNullPct != 30 {
		t.Errorf("thresholds not defaulted: %+v", cfg.Report)
	}
}
