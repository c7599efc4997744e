package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() failed validation: %v", err)
	}
}

func TestDefaultRelationships(t *testing.T) {
	cfg := Default()

	if got := len(cfg.Relationships); got != 14 {
		t.Errorf("expected 14 relationships, got %d", got)
	}

	selfRefs := 0
	for _, rel := range cfg.Relationships {
		if rel.SelfReferencing() {
			selfRefs++
		}
	}
	if selfRefs != 4 {
		t.Errorf("expected 4 self-referencing relationships, got %d", selfRefs)
	}
}

func TestDefaultMirror(t *testing.T) {
	cfg := Default()

	if got := cfg.MirrorTableName(FileContacts); got != "contacts" {
		t.Errorf("MirrorTableName(%s) = %q, want %q", FileContacts, got, "contacts")
	}
	if got := cfg.MirrorTableName("extra_export.csv"); got != "extra_export" {
		t.Errorf("MirrorTableName(extra_export.csv) = %q, want %q", got, "extra_export")
	}
	if got := len(cfg.Mirror.Indexes); got != 6 {
		t.Errorf("expected 6 indexes, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "default",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "unknown type label",
			mutate: func(c *Config) {
				c.Schemas[FileContacts]["company_id"] = "int64"
			},
			wantErr: true,
		},
		{
			name: "relationship missing child key",
			mutate: func(c *Config) {
				c.Relationships[0].ChildKey = ""
			},
			wantErr: true,
		},
		{
			name: "index missing column",
			mutate: func(c *Config) {
				c.Mirror.Indexes[0].Column = ""
			},
			wantErr: true,
		},
		{
			name: "highlight missing label",
			mutate: func(c *Config) {
				c.Report.Highlights[0].Label = ""
			},
			wantErr: true,
		},
		{
			name: "threshold out of range",
			mutate: func(c *Config) {
				c.Report.HighNullPct = 120
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	raw := `{
		"schemas": {
			"orders.csv": {"order_id": "integer", "amount": "float"}
		},
		"relationships": [
			{"parent_table": "orders.csv", "parent_key": "order_id", "child_table": "items.csv", "child_key": "order_id"}
		],
		"mirror": {
			"tables": {"orders.csv": "orders"},
			"indexes": [{"name": "idx_orders_id", "table": "orders", "column": "order_id"}]
		}
	}`

	path := filepath.Join(t.TempDir(), "audit.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if got := cfg.Schemas["orders.csv"]["amount"]; got != "float" {
		t.Errorf("schema amount = %q, want %q", got, "float")
	}
	if len(cfg.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(cfg.Relationships))
	}
	if cfg.Relationships[0].SelfReferencing() {
		t.Error("orders->items should not be self-referencing")
	}

	// Omitted thresholds fall back to the defaults.
	if cfg.Report.StrongIntegrityPct != 80 {
		t.Errorf("StrongIntegrityPct = %v, want 80", cfg.Report.StrongIntegrityPct)
	}
	if cfg.Report.HighNullPct != 30 {
		t.Errorf("HighNullPct = %v, want 30", cfg.Report.HighNullPct)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed JSON")
	}

	path = filepath.Join(t.TempDir(), "badtype.json")
	if err := os.WriteFile(path, []byte(`{"schemas": {"a.csv": {"x": "int64"}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unknown type label")
	}
}
