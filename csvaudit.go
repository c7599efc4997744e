// Package csvaudit audits a directory of related CSV exports and reports
// on schema drift, referential integrity, and data coverage.
//
// The package treats a directory of CSV files as one dataset: each file is
// a table, the header row names its columns, and empty strings are nulls.
// An audit infers a type for every column, checks declared column types
// and cross-file key relationships, measures null rates and distinct
// counts, and renders the findings as a markdown report, detail CSVs, an
// Excel workbook, a JSON dump, and a console digest.
//
// # Quick Start
//
// The simplest way to use this package is with AnalyzeAndReport:
//
//	err := csvaudit.AnalyzeAndReport(
//		"private/datasets",
//		nil, // built-in dataset description
//		&csvaudit.ReportOptions{
//			ReportPath: "private/analysis/dataset_summary_statistics.md",
//			DetailDir:  "private/analysis",
//			Summary:    os.Stdout,
//		},
//	)
//
// # Dataset Description
//
// What the audit checks is driven by a configuration: expected column
// types per file, declared parent/child key relationships, and reporting
// thresholds. Passing nil uses the built-in description of the intent
// data exports this tool grew up on; LoadConfig reads a JSON description
// for any other dataset.
//
// # Outputs
//
// Each output is independent and optional:
//   - ReportPath: markdown summary (overview table, findings, totals)
//   - DetailDir: relationship_analysis.csv and data_coverage_analysis.csv
//   - ExcelPath: one workbook with Overview, Relationships, and Coverage sheets
//   - JSONPath: the full result as indented JSON
//   - Summary: human-readable digest for terminals and CI logs
//
// Malformed CSV files and unreadable inputs never abort an audit; they are
// recorded on the result and surfaced in the quality section of the report.
package csvaudit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"csvaudit/internal/analysis"
	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
	"csvaudit/internal/report"
)

// ReportOptions configures which audit outputs are written and where.
//
// All fields are optional; an output whose field is empty (or nil for
// Summary) is skipped. If no options are given at all, WriteReports
// defaults to printing the console digest to os.Stdout.
type ReportOptions struct {
	// ReportPath is the file path for the markdown summary report.
	// Parent directories are created if needed. Empty skips it.
	// Example: "private/analysis/dataset_summary_statistics.md"
	ReportPath string

	// DetailDir is the directory for the per-relationship and
	// per-column detail CSVs. Existing *.csv files in the directory
	// are removed first so stale detail from earlier runs cannot
	// outlive the data it described. Empty skips them.
	DetailDir string

	// ExcelPath is the file path for the Excel workbook.
	// Parent directories are created if needed. Empty skips it.
	ExcelPath string

	// JSONPath is the file path for the JSON dump of the full result.
	// Parent directories are created if needed. Empty skips it.
	JSONPath string

	// Summary receives the console digest. Can be os.Stdout, a file
	// handle, bytes.Buffer, or any io.Writer. Nil skips it.
	Summary io.Writer
}

// AnalyzeAndReport audits a dataset directory and writes the configured
// reports in one call. This is the recommended function for most use cases.
//
// The function loads every *.csv file in dir, runs the schema, relationship,
// and coverage analyzers against cfg, and writes each requested output.
//
// Parameters:
//   - dir: directory containing the CSV files to audit
//   - cfg: dataset description (can be nil for the built-in one)
//   - opts: report destinations (can be nil for a stdout digest)
//
// Returns an error if:
//   - dir does not exist or contains no CSV files
//   - cfg fails validation
//   - writing any requested output fails
//
// Individual files that fail to parse do not cause an error; they are
// reported in the data quality section instead.
//
// Example:
//
//	err := csvaudit.AnalyzeAndReport(
//		"private/datasets",
//		nil,
//		&csvaudit.ReportOptions{
//			ReportPath: "private/analysis/dataset_summary_statistics.md",
//			DetailDir:  "private/analysis",
//			ExcelPath:  "private/analysis/dataset_summary.xlsx",
//		},
//	)
func AnalyzeAndReport(dir string, cfg *config.Config, opts *ReportOptions) error {
	res, err := Analyze(dir, cfg)
	if err != nil {
		return err
	}
	return WriteReports(res, opts)
}

// Analyze loads the CSV files in dir and runs the full audit.
//
// Use this function when you need to inspect the result before rendering
// it, or when you want outputs WriteReports does not produce. For most
// use cases, use AnalyzeAndReport instead.
//
// The returned result carries per-table statistics, evaluated and skipped
// relationships, per-column coverage records, and any file-level load
// errors. It can be passed to WriteReports any number of times.
//
// Parameters:
//   - dir: directory containing the CSV files to audit
//   - cfg: dataset description (can be nil for the built-in one)
//
// Returns an error if:
//   - dir does not exist (dataset.ErrDirectoryNotFound)
//   - dir contains no CSV files (dataset.ErrNoInputFiles)
//   - cfg fails validation
//
// Example:
//
//	res, err := csvaudit.Analyze("private/datasets", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("audited %d tables, %d rows\n", len(res.Tables), res.TotalRows())
func Analyze(dir string, cfg *config.Config) (*analysis.Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := dataset.Load(dir)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(c, cfg), nil
}

// WriteReports renders an audit result to the configured outputs.
//
// Use this function when you've already produced a result with Analyze.
// For most use cases, use AnalyzeAndReport instead.
//
// Each requested output is written independently; the first failure stops
// the remaining ones.
//
// Parameters:
//   - res: the audit result (obtained from Analyze)
//   - opts: report destinations (can be nil for a stdout digest)
//
// Returns an error if directory creation, file creation, or writing fails.
func WriteReports(res *analysis.Result, opts *ReportOptions) error {
	if opts == nil {
		opts = &ReportOptions{Summary: os.Stdout}
	}

	if opts.ReportPath != "" {
		if err := writeMarkdownFile(res, opts.ReportPath); err != nil {
			return err
		}
	}
	if opts.DetailDir != "" {
		if err := report.WriteDetails(res, opts.DetailDir); err != nil {
			return err
		}
	}
	if opts.ExcelPath != "" {
		if err := ensureParent(opts.ExcelPath); err != nil {
			return err
		}
		if err := report.WriteExcel(res, opts.ExcelPath); err != nil {
			return err
		}
	}
	if opts.JSONPath != "" {
		if err := writeJSONFile(res, opts.JSONPath); err != nil {
			return err
		}
	}
	if opts.Summary != nil {
		return report.NewTextFormatter(opts.Summary, res.Policy).Format(res)
	}
	return nil
}

// DefaultConfig returns the built-in dataset description: the expected
// column types, key relationships, and mirror layout of the intent data
// exports. Callers may modify the returned value before passing it to
// Analyze.
func DefaultConfig() *config.Config {
	return config.Default()
}

// LoadConfig reads a JSON dataset description from path. Missing report
// thresholds fall back to their defaults; invalid declarations (unknown
// type labels, incomplete relationships) are rejected.
func LoadConfig(path string) (*config.Config, error) {
	return config.LoadFile(path)
}

func writeMarkdownFile(res *analysis.Result, path string) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return report.NewMarkdownFormatter(f, res.Policy).Format(res)
}

func writeJSONFile(res *analysis.Result, path string) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return report.WriteJSON(res, f)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
