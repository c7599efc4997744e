// Package analysis computes the audit findings over a loaded collection:
// expected-vs-observed type mismatches, key relationship integrity, and
// per-column coverage. Everything here is advisory; findings never abort
// a run.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
)

// mismatchRule decides whether an observed column type satisfies one
// expected type. Expected types without a rule accept any observation.
type mismatchRule struct {
	ok func(dataset.ColumnType) bool
	// label names the expectation in mismatch messages.
	label string
}

var mismatchRules = map[dataset.ColumnType]mismatchRule{
	dataset.TypeBoolean: {ok: observedBoolean, label: "boolean"},
	dataset.TypeInteger: {ok: observedNumeric, label: "numeric"},
	dataset.TypeFloat:   {ok: observedNumeric, label: "numeric"},
}

func observedBoolean(o dataset.ColumnType) bool { return o == dataset.TypeBoolean }

// A numeric expectation tolerates integer, float, and boolean observations;
// only free text is a mismatch.
func observedNumeric(o dataset.ColumnType) bool { return o != dataset.TypeText }

// CheckSchema compares a table's observed column types against an expected
// schema (column name -> type label) and returns one message per mismatch,
// ordered by column name. Columns absent from the table or from the schema
// are skipped, as are columns with no values at all.
func CheckSchema(t *dataset.Table, schema map[string]string) []string {
	if len(schema) == 0 {
		return nil
	}

	cols := make([]string, 0, len(schema))
	for col := range schema {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var mismatches []string
	for _, col := range cols {
		idx, found := t.ColumnIndex(col)
		if !found {
			continue
		}
		expected, known := dataset.ParseColumnType(schema[col])
		if !known {
			continue
		}
		rule, checked := mismatchRules[expected]
		if !checked {
			continue
		}
		if allNull(t.ColumnValues(idx)) {
			// An empty column observes as text no matter what it holds.
			continue
		}
		observed := t.Types[idx]
		if !rule.ok(observed) {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %s, got %s", col, rule.label, observed))
		}
	}
	return mismatches
}

func allNull(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

const mismatchDetailLimit = 3

// FormatMismatches renders the first three mismatch messages as one line,
// with a trailing ellipsis when more were found.
func FormatMismatches(mismatches []string) string {
	if len(mismatches) == 0 {
		return ""
	}
	shown := mismatches
	suffix := ""
	if len(shown) > mismatchDetailLimit {
		shown = shown[:mismatchDetailLimit]
		suffix = "..."
	}
	return strings.Join(shown, ", ") + suffix
}

// schemaFor looks up the expected schema for a table, if one is declared.
func schemaFor(cfg *config.Config, table string) map[string]string {
	if cfg == nil {
		return nil
	}
	return cfg.Schemas[table]
}
