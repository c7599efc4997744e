package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ColumnType is the scalar type observed for a CSV column.
type ColumnType int

const (
	// TypeText is the fallback type for free-form values.
	TypeText ColumnType = iota
	// TypeInteger covers columns whose non-null values all parse as integers.
	TypeInteger
	// TypeFloat covers numeric columns with at least one non-integer value.
	TypeFloat
	// TypeBoolean covers columns holding only true/false literals.
	TypeBoolean
)

// String returns the type label used in schema declarations and reports.
func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	default:
		return "text"
	}
}

// MarshalJSON writes the type label, keeping exported records readable.
func (t ColumnType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the same labels ParseColumnType does.
func (t *ColumnType) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, ok := ParseColumnType(label)
	if !ok {
		return fmt.Errorf("unknown column type %q", label)
	}
	*t = parsed
	return nil
}

// ParseColumnType maps a label back to its ColumnType. Unknown labels are
// reported so config typos surface instead of silently becoming text.
func ParseColumnType(label string) (ColumnType, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "text":
		return TypeText, true
	case "integer":
		return TypeInteger, true
	case "float":
		return TypeFloat, true
	case "boolean":
		return TypeBoolean, true
	default:
		return TypeText, false
	}
}

// InferType determines the narrowest ColumnType that fits every non-null
// value. Empty strings are nulls and do not participate. A column with no
// non-null values is text.
func InferType(values []string) ColumnType {
	seen := false
	allInt := true
	allFloat := true
	allBool := true

	for _, v := range values {
		if v == "" {
			continue
		}
		seen = true
		if allInt && !isIntegerLiteral(v) {
			allInt = false
		}
		if allFloat && !isFloatLiteral(v) {
			allFloat = false
		}
		if allBool && !isBooleanLiteral(v) {
			allBool = false
		}
		if !allInt && !allFloat && !allBool {
			return TypeText
		}
	}

	switch {
	case !seen:
		return TypeText
	case allInt:
		return TypeInteger
	case allFloat:
		return TypeFloat
	case allBool:
		return TypeBoolean
	default:
		return TypeText
	}
}

// InferColumnTypes infers one type per header column across all rows.
func InferColumnTypes(header []string, rows [][]string) []ColumnType {
	types := make([]ColumnType, len(header))
	column := make([]string, len(rows))
	for j := range header {
		for i, row := range rows {
			column[i] = row[j]
		}
		types[j] = InferType(column)
	}
	return types
}

func isIntegerLiteral(v string) bool {
	_, err := strconv.ParseInt(v, 10, 64)
	return err == nil
}

func isFloatLiteral(v string) bool {
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

func isBooleanLiteral(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	default:
		return false
	}
}
