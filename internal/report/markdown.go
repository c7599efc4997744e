// Package report renders an audit result for people and downstream tools:
// a Markdown summary, a console digest, per-row detail CSVs, an Excel
// workbook, and a JSON dump.
package report

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"csvaudit/internal/analysis"
	"csvaudit/internal/config"
)

// MarkdownFormatter writes the summary report as Markdown.
type MarkdownFormatter struct {
	writer io.Writer
	policy config.ReportConfig
	num    *message.Printer
}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter(w io.Writer, policy config.ReportConfig) *MarkdownFormatter {
	return &MarkdownFormatter{
		writer: w,
		policy: policy,
		num:    message.NewPrinter(language.English),
	}
}

// Format writes the full report: overview table, key findings, and summary
// statistics, in that order.
func (f *MarkdownFormatter) Format(res *analysis.Result) error {
	_, _ = fmt.Fprintln(f.writer, "# Dataset Summary Statistics")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "Generated: %s\n\n", res.GeneratedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(f.writer, "Run ID: %s\n\n", res.RunID)

	f.formatOverview(res)
	f.formatFindings(res)
	f.formatSummary(res)
	return nil
}

func (f *MarkdownFormatter) formatOverview(res *analysis.Result) {
	_, _ = fmt.Fprintln(f.writer, "## Overview")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, "| File | Rows | Columns | File Size (MB) | Memory (MB) | Nulls (%) | Type Issues |")
	_, _ = fmt.Fprintln(f.writer, "|------|------|---------|----------------|-------------|-----------|-------------|")

	for _, t := range res.Tables {
		_, _ = fmt.Fprintf(f.writer, "| %s | %s | %d | %s | %s | %s%% | %d |\n",
			t.File,
			f.num.Sprintf("%d", t.Rows),
			t.Columns,
			formatFloat(t.FileSizeMB),
			formatFloat(t.MemoryMB),
			formatFloat(t.NullPct),
			len(t.Mismatches))
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatFindings(res *analysis.Result) {
	_, _ = fmt.Fprintln(f.writer, "## Key Findings")
	_, _ = fmt.Fprintln(f.writer)

	f.formatRelationships(res)
	f.formatCoverageHighlights(res)
	f.formatQualityIssues(res)
	f.formatTemporal(res)
}

func (f *MarkdownFormatter) formatRelationships(res *analysis.Result) {
	strong := res.StrongRelationships(f.policy.StrongIntegrityPct)
	broken := res.BrokenRelationships(f.policy.StrongIntegrityPct)

	_, _ = fmt.Fprintln(f.writer, "### Relationships")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "Strong relationships (>%s%% integrity): %d\n\n", formatFloat(f.policy.StrongIntegrityPct), len(strong))
	_, _ = fmt.Fprintf(f.writer, "Broken relationships (≤%s%% integrity): %d\n\n", formatFloat(f.policy.StrongIntegrityPct), len(broken))

	for _, rel := range strong {
		f.formatRelationship(rel)
	}
	for _, rel := range broken {
		f.formatRelationship(rel)
	}
	if len(strong)+len(broken) > 0 {
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(res.Skipped) > 0 {
		_, _ = fmt.Fprintln(f.writer, "Not evaluated:")
		_, _ = fmt.Fprintln(f.writer)
		for _, s := range res.Skipped {
			_, _ = fmt.Fprintf(f.writer, "- %s(%s) → %s(%s): skipped, %s\n",
				s.ParentTable, s.ParentKey, s.ChildTable, s.ChildKey, s.Reason)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}

func (f *MarkdownFormatter) formatRelationship(rel analysis.RelationshipResult) {
	_, _ = fmt.Fprintf(f.writer, "- **%s(%s) → %s(%s)**: %s%% integrity (%s/%s valid, %s)\n",
		rel.ParentTable, rel.ParentKey,
		rel.ChildTable, rel.ChildKey,
		formatFloat(rel.IntegrityPct),
		f.num.Sprintf("%d", rel.ValidRefs),
		f.num.Sprintf("%d", rel.ChildTotalRefs),
		rel.Type)
}

func (f *MarkdownFormatter) formatCoverageHighlights(res *analysis.Result) {
	_, _ = fmt.Fprintln(f.writer, "### Data Coverage")
	_, _ = fmt.Fprintln(f.writer)

	for _, t := range res.Tables {
		for _, h := range t.Highlights {
			_, _ = fmt.Fprintf(f.writer, "- **%s**: %s %s\n", t.File, f.num.Sprintf("%d", h.Count), h.Label)
		}
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatQualityIssues(res *analysis.Result) {
	_, _ = fmt.Fprintln(f.writer, "### Data Quality Issues")
	_, _ = fmt.Fprintln(f.writer)

	found := false
	for _, e := range res.LoadErrors {
		_, _ = fmt.Fprintf(f.writer, "- **%s** failed to load: %v\n", e.File, e.Err)
		found = true
	}
	for _, t := range res.Tables {
		if len(t.Mismatches) > 0 {
			_, _ = fmt.Fprintf(f.writer, "- **%s** has type mismatches: %s\n", t.File, t.MismatchDetails())
			found = true
		}
		if t.NullPct > f.policy.HighNullPct {
			_, _ = fmt.Fprintf(f.writer, "- **%s** has high null rate: %s%%\n", t.File, formatFloat(t.NullPct))
			found = true
		}
	}
	for _, c := range res.Coverage {
		if c.NullPct > f.policy.HighNullPct {
			_, _ = fmt.Fprintf(f.writer, "- **%s.%s** is %s%% null\n", c.Table, c.Column, formatFloat(c.NullPct))
			found = true
		}
	}

	if !found {
		_, _ = fmt.Fprintln(f.writer, "- No significant data quality issues detected")
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatTemporal(res *analysis.Result) {
	_, _ = fmt.Fprintln(f.writer, "### Temporal Coverage")
	_, _ = fmt.Fprintln(f.writer)

	found := false
	for _, t := range res.Tables {
		if t.DateRange != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s**: %s\n", t.File, t.DateRange)
			found = true
		}
	}
	if !found {
		_, _ = fmt.Fprintln(f.writer, "- No date columns detected")
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatSummary(res *analysis.Result) {
	_, _ = fmt.Fprintln(f.writer, "## Summary Statistics")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "- Total rows across all files: %s\n", f.num.Sprintf("%d", res.TotalRows()))
	_, _ = fmt.Fprintf(f.writer, "- Total file size: %.1f MB\n", res.TotalSizeMB())
	_, _ = fmt.Fprintf(f.writer, "- Average null rate: %.1f%%\n", res.MeanNullPct())
}

// formatFloat renders a rounded metric without trailing zeros, so 50.0
// prints as 50 and 66.67 stays 66.67.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
