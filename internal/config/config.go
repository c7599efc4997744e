// Package config holds the dataset description the audit runs against:
// expected column types per file, declared relationships, mirror table
// mapping and indexes, and report policy knobs. The built-in default
// describes the intent-data export; a JSON file can replace any of it.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"csvaudit/internal/dataset"
)

// Config is the full dataset description.
type Config struct {
	// Schemas maps file name -> column name -> expected type label
	// (text, integer, float, boolean).
	Schemas map[string]map[string]string `json:"schemas"`

	// Relationships are the declared parent/child key pairs to audit.
	Relationships []Relationship `json:"relationships"`

	Mirror MirrorConfig `json:"mirror"`
	Report ReportConfig `json:"report"`
}

// Relationship declares one parent/child key pair. Parent and child may be
// the same table (a self-referencing hierarchy pointer).
type Relationship struct {
	ParentTable string `json:"parent_table"`
	ParentKey   string `json:"parent_key"`
	ChildTable  string `json:"child_table"`
	ChildKey    string `json:"child_key"`
}

// SelfReferencing reports whether parent and child are the same table.
func (r Relationship) SelfReferencing() bool {
	return r.ParentTable == r.ChildTable
}

// MirrorConfig controls how files land in a relational store.
type MirrorConfig struct {
	// Tables maps file name -> database table name. Files without a mapping
	// use the file stem.
	Tables map[string]string `json:"tables"`

	// Indexes are single-column indexes to create after loading.
	Indexes []Index `json:"indexes"`
}

// Index declares one single-column index on a mirrored table.
type Index struct {
	Name   string `json:"name"`
	Table  string `json:"table"`
	Column string `json:"column"`
}

// ReportConfig carries the report policy knobs. Zero thresholds mean the
// defaults (80% strong integrity, 30% high null rate).
type ReportConfig struct {
	// StrongIntegrityPct separates strong relationships (integrity above the
	// threshold) from broken ones.
	StrongIntegrityPct float64 `json:"strong_integrity_pct"`

	// HighNullPct flags columns and tables whose null rate exceeds it.
	HighNullPct float64 `json:"high_null_pct"`

	// Highlights are identifier-like columns whose distinct counts the
	// report calls out per file.
	Highlights []Highlight `json:"highlights"`

	// KeyColumnPatterns select key columns for the coverage callout by
	// case-insensitive substring match on the column name.
	KeyColumnPatterns []string `json:"key_column_patterns"`

	// ExcludeDateColumns lists date-named columns to leave out of temporal
	// coverage (partition columns carry load dates, not data dates).
	ExcludeDateColumns []string `json:"exclude_date_columns"`
}

// Highlight labels the distinct count of one column, e.g. company_id as
// "unique companies".
type Highlight struct {
	Column string `json:"column"`
	Label  string `json:"label"`
}

const (
	defaultStrongIntegrityPct = 80.0
	defaultHighNullPct        = 30.0
)

// WithDefaults returns a copy with zero thresholds replaced by the
// defaults.
func (r ReportConfig) WithDefaults() ReportConfig {
	if r.StrongIntegrityPct == 0 {
		r.StrongIntegrityPct = defaultStrongIntegrityPct
	}
	if r.HighNullPct == 0 {
		r.HighNullPct = defaultHighNullPct
	}
	return r
}

// LoadFile reads a JSON config, fills defaulted thresholds, and validates.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Report = c.Report.WithDefaults()
}

// Validate rejects declarations the analyzers could not act on.
func (c *Config) Validate() error {
	for file, schema := range c.Schemas {
		if file == "" {
			return fmt.Errorf("schemas: empty file name")
		}
		for col, label := range schema {
			if col == "" {
				return fmt.Errorf("schema for %s: empty column name", file)
			}
			if _, ok := dataset.ParseColumnType(label); !ok {
				return fmt.Errorf("schema for %s: column %s has unknown type %q", file, col, label)
			}
		}
	}

	for i, rel := range c.Relationships {
		if rel.ParentTable == "" || rel.ParentKey == "" || rel.ChildTable == "" || rel.ChildKey == "" {
			return fmt.Errorf("relationship %d: all of parent_table, parent_key, child_table, child_key are required", i)
		}
	}

	for i, idx := range c.Mirror.Indexes {
		if idx.Name == "" || idx.Table == "" || idx.Column == "" {
			return fmt.Errorf("mirror index %d: name, table, and column are required", i)
		}
	}

	for i, h := range c.Report.Highlights {
		if h.Column == "" || h.Label == "" {
			return fmt.Errorf("highlight %d: column and label are required", i)
		}
	}

	if c.Report.StrongIntegrityPct < 0 || c.Report.StrongIntegrityPct > 100 {
		return fmt.Errorf("strong_integrity_pct must be within 0..100, got %v", c.Report.StrongIntegrityPct)
	}
	if c.Report.HighNullPct < 0 || c.Report.HighNullPct > 100 {
		return fmt.Errorf("high_null_pct must be within 0..100, got %v", c.Report.HighNullPct)
	}
	return nil
}

// MirrorTableName resolves the database table name for a file.
func (c *Config) MirrorTableName(file string) string {
	if name, ok := c.Mirror.Tables[file]; ok {
		return name
	}
	return stem(file)
}

func stem(file string) string {
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '.' {
			return file[:i]
		}
	}
	return file
}
