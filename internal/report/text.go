package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"csvaudit/internal/analysis"
	"csvaudit/internal/config"
)

// TextFormatter writes the compact console digest of an audit run.
type TextFormatter struct {
	writer io.Writer
	policy config.ReportConfig
	num    *message.Printer
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(w io.Writer, policy config.ReportConfig) *TextFormatter {
	return &TextFormatter{
		writer: w,
		policy: policy,
		num:    message.NewPrinter(language.English),
	}
}

// Format writes the digest: file inventory, relationship verdicts, and key
// column quality.
func (f *TextFormatter) Format(res *analysis.Result) error {
	banner := strings.Repeat("=", 80)
	_, _ = fmt.Fprintln(f.writer, banner)
	_, _ = fmt.Fprintln(f.writer, "DATASET RELATIONSHIP AUDIT")
	_, _ = fmt.Fprintln(f.writer, banner)

	_, _ = fmt.Fprintf(f.writer, "\nTotal files: %d\n", len(res.Tables))
	_, _ = fmt.Fprintf(f.writer, "Total rows: %s\n", f.num.Sprintf("%d", res.TotalRows()))
	for _, t := range res.Tables {
		_, _ = fmt.Fprintf(f.writer, "  %s: %s rows × %d columns\n", t.File, f.num.Sprintf("%d", t.Rows), t.Columns)
	}
	for _, e := range res.LoadErrors {
		_, _ = fmt.Fprintf(f.writer, "  ERROR loading %s: %v\n", e.File, e.Err)
	}

	f.formatRelationships(res)
	f.formatQuality(res)
	return nil
}

func (f *TextFormatter) formatRelationships(res *analysis.Result) {
	divider := strings.Repeat("-", 60)
	strong := res.StrongRelationships(f.policy.StrongIntegrityPct)
	broken := res.BrokenRelationships(f.policy.StrongIntegrityPct)

	_, _ = fmt.Fprintln(f.writer, "\nFOREIGN KEY RELATIONSHIP ANALYSIS:")
	_, _ = fmt.Fprintln(f.writer, divider)
	_, _ = fmt.Fprintf(f.writer, "Strong relationships (>%s%% integrity): %d\n", formatFloat(f.policy.StrongIntegrityPct), len(strong))
	_, _ = fmt.Fprintf(f.writer, "Broken relationships (≤%s%% integrity): %d\n", formatFloat(f.policy.StrongIntegrityPct), len(broken))
	_, _ = fmt.Fprintf(f.writer, "Skipped relationships: %d\n", len(res.Skipped))

	if len(strong) > 0 {
		_, _ = fmt.Fprintln(f.writer, "\nSTRONG RELATIONSHIPS:")
		for _, rel := range strong {
			f.formatRelationship(rel)
		}
	}
	if len(broken) > 0 {
		_, _ = fmt.Fprintln(f.writer, "\nBROKEN RELATIONSHIPS:")
		for _, rel := range broken {
			f.formatRelationship(rel)
		}
	}
	if len(res.Skipped) > 0 {
		_, _ = fmt.Fprintln(f.writer, "\nSKIPPED RELATIONSHIPS:")
		for _, s := range res.Skipped {
			_, _ = fmt.Fprintf(f.writer, "  %s(%s) → %s(%s): %s\n",
				s.ParentTable, s.ParentKey, s.ChildTable, s.ChildKey, s.Reason)
		}
	}
}

func (f *TextFormatter) formatRelationship(rel analysis.RelationshipResult) {
	_, _ = fmt.Fprintf(f.writer, "  %s(%s) → %s(%s)\n", rel.ParentTable, rel.ParentKey, rel.ChildTable, rel.ChildKey)
	_, _ = fmt.Fprintf(f.writer, "    Integrity: %s%% (%s/%s valid)\n",
		formatFloat(rel.IntegrityPct),
		f.num.Sprintf("%d", rel.ValidRefs),
		f.num.Sprintf("%d", rel.ChildTotalRefs))
}

func (f *TextFormatter) formatQuality(res *analysis.Result) {
	divider := strings.Repeat("-", 60)
	_, _ = fmt.Fprintln(f.writer, "\nDATA QUALITY SUMMARY:")
	_, _ = fmt.Fprintln(f.writer, divider)

	highNull := 0
	var keyColumns []analysis.CoverageRecord
	for _, c := range res.Coverage {
		if c.NullPct > f.policy.HighNullPct {
			highNull++
		}
		if f.isKeyColumn(c.Column) {
			keyColumns = append(keyColumns, c)
		}
	}

	_, _ = fmt.Fprintf(f.writer, "Columns with >%s%% nulls: %d\n", formatFloat(f.policy.HighNullPct), highNull)
	_, _ = fmt.Fprintf(f.writer, "Key columns analyzed: %d\n", len(keyColumns))

	if len(keyColumns) > 0 {
		_, _ = fmt.Fprintln(f.writer, "\nKEY COLUMN QUALITY:")
		for _, c := range keyColumns {
			_, _ = fmt.Fprintf(f.writer, "  %s | %s: %s%% null, %s unique\n",
				c.Table, c.Column, formatFloat(c.NullPct), f.num.Sprintf("%d", c.UniqueValues))
		}
	}
}

// isKeyColumn matches the configured identifier patterns by substring.
func (f *TextFormatter) isKeyColumn(column string) bool {
	lower := strings.ToLower(column)
	for _, pattern := range f.policy.KeyColumnPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
