package analysis

import (
	"csvaudit/internal/config"
	"csvaudit/internal/dataset"
)

// Relationship classifications.
const (
	RelTypeForeignKey      = "foreign_key"
	RelTypeSelfReferencing = "self-referencing"
)

// RelationshipResult holds the integrity metrics for one evaluated
// parent/child key pair.
type RelationshipResult struct {
	ParentTable string `json:"parent_table"`
	ParentKey   string `json:"parent_key"`
	ChildTable  string `json:"child_table"`
	ChildKey    string `json:"child_key"`

	ParentUniqueValues int     `json:"parent_unique_values"`
	ChildTotalRefs     int     `json:"child_total_refs"`
	ValidRefs          int     `json:"valid_refs"`
	InvalidRefs        int     `json:"invalid_refs"`
	IntegrityPct       float64 `json:"referential_integrity_pct"`
	Type               string  `json:"relationship_type"`
}

// SkippedRelationship records a declared relationship that could not be
// evaluated, so absence from the metrics is never mistaken for integrity.
type SkippedRelationship struct {
	config.Relationship
	Reason string `json:"reason"`
}

// CheckRelationships evaluates each declared relationship against the
// collection. Relationships whose tables or key columns are missing are
// returned separately with the reason, in declaration order.
func CheckRelationships(c *dataset.Collection, rels []config.Relationship) ([]RelationshipResult, []SkippedRelationship) {
	var results []RelationshipResult
	var skipped []SkippedRelationship

	for _, rel := range rels {
		parent, ok := c.Get(rel.ParentTable)
		if !ok {
			skipped = append(skipped, SkippedRelationship{rel, "parent table not loaded"})
			continue
		}
		child, ok := c.Get(rel.ChildTable)
		if !ok {
			skipped = append(skipped, SkippedRelationship{rel, "child table not loaded"})
			continue
		}
		parentIdx, ok := parent.ColumnIndex(rel.ParentKey)
		if !ok {
			skipped = append(skipped, SkippedRelationship{rel, "parent key column absent"})
			continue
		}
		childIdx, ok := child.ColumnIndex(rel.ChildKey)
		if !ok {
			skipped = append(skipped, SkippedRelationship{rel, "child key column absent"})
			continue
		}

		results = append(results, evaluate(rel, parent.ColumnValues(parentIdx), child.ColumnValues(childIdx)))
	}
	return results, skipped
}

// evaluate computes the integrity metrics for one key pair. Values compare
// as raw text; empty cells are nulls and count on neither side.
func evaluate(rel config.Relationship, parentValues, childValues []string) RelationshipResult {
	parentSet := make(map[string]struct{})
	for _, v := range parentValues {
		if v != "" {
			parentSet[v] = struct{}{}
		}
	}

	total, valid := 0, 0
	for _, v := range childValues {
		if v == "" {
			continue
		}
		total++
		if _, ok := parentSet[v]; ok {
			valid++
		}
	}

	integrity := 0.0
	if total > 0 {
		integrity = round2(float64(valid) / float64(total) * 100)
	}

	relType := RelTypeForeignKey
	if rel.SelfReferencing() {
		relType = RelTypeSelfReferencing
	}

	return RelationshipResult{
		ParentTable:        rel.ParentTable,
		ParentKey:          rel.ParentKey,
		ChildTable:         rel.ChildTable,
		ChildKey:           rel.ChildKey,
		ParentUniqueValues: len(parentSet),
		ChildTotalRefs:     total,
		ValidRefs:          valid,
		InvalidRefs:        total - valid,
		IntegrityPct:       integrity,
		Type:               relType,
	}
}
