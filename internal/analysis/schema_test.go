package analysis

import "testing"

func TestCheckSchema(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		rows   [][]string
		schema map[string]string
		want   []string
	}{
		{
			name:   "numeric expected but free text observed",
			header: []string{"revenue"},
			rows:   [][]string{{"10.5"}, {"unknown"}},
			schema: map[string]string{"revenue": "integer"},
			want:   []string{"revenue: expected numeric, got text"},
		},
		{
			name:   "boolean expected but integer observed",
			header: []string{"active"},
			rows:   [][]string{{"1"}, {"0"}},
			schema: map[string]string{"active": "boolean"},
			want:   []string{"active: expected boolean, got integer"},
		},
		{
			name:   "float expected and integer observed is fine",
			header: []string{"employees"},
			rows:   [][]string{{"100"}, {"250"}},
			schema: map[string]string{"employees": "float"},
			want:   nil,
		},
		{
			name:   "integer expected and boolean observed is fine",
			header: []string{"isroot"},
			rows:   [][]string{{"true"}, {"false"}},
			schema: map[string]string{"isroot": "integer"},
			want:   nil,
		},
		{
			name:   "text expectation accepts anything",
			header: []string{"domain"},
			rows:   [][]string{{"42"}},
			schema: map[string]string{"domain": "text"},
			want:   nil,
		},
		{
			name:   "column absent from table is skipped",
			header: []string{"company_id"},
			rows:   [][]string{{"1"}},
			schema: map[string]string{"revenue": "float"},
			want:   nil,
		},
		{
			name:   "all-null column is skipped",
			header: []string{"score"},
			rows:   [][]string{{""}, {""}},
			schema: map[string]string{"score": "integer"},
			want:   nil,
		},
		{
			name:   "no schema",
			header: []string{"x"},
			rows:   [][]string{{"hello"}},
			schema: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTable("t.csv", tt.header, tt.rows...)
			got := CheckSchema(table, tt.schema)
			if len(got) != len(tt.want) {
				t.Fatalf("CheckSchema() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("mismatch %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCheckSchemaOrdering(t *testing.T) {
	table := newTable("t.csv",
		[]string{"zeta", "alpha"},
		[]string{"x", "y"},
	)
	schema := map[string]string{"zeta": "integer", "alpha": "integer"}

	got := CheckSchema(table, schema)
	if len(got) != 2 {
		t.Fatalf("expected 2 mismatches, got %v", got)
	}
	if got[0] != "alpha: expected numeric, got text" {
		t.Errorf("mismatches not ordered by column: %v", got)
	}
}

func TestFormatMismatches(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"none", nil, ""},
		{"two", []string{"a: x", "b: y"}, "a: x, b: y"},
		{"exactly three", []string{"a: x", "b: y", "c: z"}, "a: x, b: y, c: z"},
		{"truncated", []string{"a: x", "b: y", "c: z", "d: w"}, "a: x, b: y, c: z..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMismatches(tt.in); got != tt.want {
				t.Errorf("FormatMismatches() = %q, want %q", got, tt.want)
			}
		})
	}
}
