package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
)

// HighlightCount is the distinct non-null count of one identifier-like
// column, carrying its configured label ("unique companies" and friends).
type HighlightCount struct {
	Column string `json:"column"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// TableStats is the per-file summary row of the audit.
type TableStats struct {
	File             string  `json:"file"`
	Rows             int     `json:"rows"`
	Columns          int     `json:"columns"`
	FileSizeMB       float64 `json:"file_size_mb"`
	MemoryMB         float64 `json:"memory_usage_mb"`
	TotalNulls       int     `json:"total_nulls"`
	ColumnsWithNulls int     `json:"columns_with_nulls"`
	NullPct          float64 `json:"null_percentage"`

	Mismatches []string         `json:"mismatches,omitempty"`
	Highlights []HighlightCount `json:"highlights,omitempty"`

	// DateRange is "<min> to <max>" over the table's first date-named
	// column, empty when the table has none or nothing parses.
	DateRange string `json:"date_range,omitempty"`
}

// MismatchDetails renders the truncated mismatch list for report rows.
func (s TableStats) MismatchDetails() string {
	return FormatMismatches(s.Mismatches)
}

// Result is everything one audit run produced. Policy records the
// reporting thresholds the run was audited under so formatters do not
// need the original configuration.
type Result struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Policy      config.ReportConfig `json:"policy"`

	Tables        []TableStats          `json:"tables"`
	Relationships []RelationshipResult  `json:"relationships"`
	Skipped       []SkippedRelationship `json:"skipped_relationships,omitempty"`
	Coverage      []CoverageRecord      `json:"coverage"`
	LoadErrors    []dataset.LoadError   `json:"-"`
}

// TotalRows sums the row counts of all audited tables.
func (r *Result) TotalRows() int {
	total := 0
	for _, t := range r.Tables {
		total += t.Rows
	}
	return total
}

// TotalSizeMB sums the file sizes of all audited tables.
func (r *Result) TotalSizeMB() float64 {
	var total float64
	for _, t := range r.Tables {
		total += t.FileSizeMB
	}
	return total
}

// MeanNullPct averages the per-table null percentages.
func (r *Result) MeanNullPct() float64 {
	if len(r.Tables) == 0 {
		return 0
	}
	var sum float64
	for _, t := range r.Tables {
		sum += t.NullPct
	}
	return sum / float64(len(r.Tables))
}

// StrongRelationships returns relationships whose integrity exceeds the
// threshold.
func (r *Result) StrongRelationships(threshold float64) []RelationshipResult {
	var strong []RelationshipResult
	for _, rel := range r.Relationships {
		if rel.IntegrityPct > threshold {
			strong = append(strong, rel)
		}
	}
	return strong
}

// BrokenRelationships returns relationships at or below the threshold.
func (r *Result) BrokenRelationships(threshold float64) []RelationshipResult {
	var broken []RelationshipResult
	for _, rel := range r.Relationships {
		if rel.IntegrityPct <= threshold {
			broken = append(broken, rel)
		}
	}
	return broken
}

// Analyze runs the full audit over a loaded collection. cfg supplies the
// expected schemas, declared relationships, and report policy; nil means
// no schemas and no relationships, coverage only.
func Analyze(c *dataset.Collection, cfg *config.Config) *Result {
	if cfg == nil {
		cfg = &config.Config{}
	}

	res := &Result{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Policy:      cfg.Report.WithDefaults(),
		LoadErrors:  c.Errors,
	}

	for _, t := range c.Tables {
		res.Tables = append(res.Tables, tableStats(t, cfg))
	}
	res.Relationships, res.Skipped = CheckRelationships(c, cfg.Relationships)
	res.Coverage = Coverage(c)
	return res
}

const bytesPerMB = 1024 * 1024

func tableStats(t *dataset.Table, cfg *config.Config) TableStats {
	stats := TableStats{
		File:       t.Name,
		Rows:       t.RowCount(),
		Columns:    t.ColumnCount(),
		FileSizeMB: round2(float64(t.SizeBytes) / bytesPerMB),
		MemoryMB:   round2(float64(t.MemoryBytes()) / bytesPerMB),
		Mismatches: CheckSchema(t, schemaFor(cfg, t.Name)),
	}

	for i := range t.Header {
		nulls := 0
		for _, v := range t.ColumnValues(i) {
			if v == "" {
				nulls++
			}
		}
		stats.TotalNulls += nulls
		if nulls > 0 {
			stats.ColumnsWithNulls++
		}
	}
	if cells := stats.Rows * stats.Columns; cells > 0 {
		stats.NullPct = round2(float64(stats.TotalNulls) / float64(cells) * 100)
	}

	for _, h := range cfg.Report.Highlights {
		idx, ok := t.ColumnIndex(h.Column)
		if !ok {
			continue
		}
		stats.Highlights = append(stats.Highlights, HighlightCount{
			Column: h.Column,
			Label:  h.Label,
			Count:  distinctNonNull(t.ColumnValues(idx)),
		})
	}

	stats.DateRange = dateRange(t, cfg.Report.ExcludeDateColumns)
	return stats
}

func distinctNonNull(values []string) int {
	distinct := make(map[string]struct{})
	for _, v := range values {
		if v != "" {
			distinct[v] = struct{}{}
		}
	}
	return len(distinct)
}

// dateLayouts are the timestamp shapes seen across the export files.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// dateRange scans the table's first date-named column (partition columns
// excluded) and returns "<min> to <max>" over the values that parse.
func dateRange(t *dataset.Table, exclude []string) string {
	col := -1
	for i, h := range t.Header {
		if !strings.Contains(strings.ToLower(h), "date") {
			continue
		}
		if excluded(h, exclude) {
			continue
		}
		col = i
		break
	}
	if col < 0 {
		return ""
	}

	var min, max time.Time
	found := false
	for _, v := range t.ColumnValues(col) {
		if v == "" {
			continue
		}
		ts, ok := parseDate(v)
		if !ok {
			continue
		}
		if !found || ts.Before(min) {
			min = ts
		}
		if !found || ts.After(max) {
			max = ts
		}
		found = true
	}
	if !found {
		return ""
	}
	return fmt.Sprintf("%s to %s", min.Format("2006-01-02"), max.Format("2006-01-02"))
}

func excluded(col string, exclude []string) bool {
	for _, e := range exclude {
		if strings.EqualFold(col, e) {
			return true
		}
	}
	return false
}

func parseDate(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
