package analysis

import "csvaudit/internal/dataset"

// CoverageRecord is the quality profile of one column.
type CoverageRecord struct {
	Table        string             `json:"table"`
	Column       string             `json:"column"`
	TotalRows    int                `json:"total_rows"`
	NullCount    int                `json:"null_count"`
	NullPct      float64            `json:"null_percentage"`
	UniqueValues int                `json:"unique_values"`
	DataType     dataset.ColumnType `json:"data_type"`
}

// Coverage profiles every column of every loaded table, in table order and
// header order. Each column is computed independently.
func Coverage(c *dataset.Collection) []CoverageRecord {
	var records []CoverageRecord
	for _, t := range c.Tables {
		for i, col := range t.Header {
			values := t.ColumnValues(i)

			nulls := 0
			distinct := make(map[string]struct{})
			for _, v := range values {
				if v == "" {
					nulls++
					continue
				}
				distinct[v] = struct{}{}
			}

			pct := 0.0
			if t.RowCount() > 0 {
				pct = round2(float64(nulls) / float64(t.RowCount()) * 100)
			}

			records = append(records, CoverageRecord{
				Table:        t.Name,
				Column:       col,
				TotalRows:    t.RowCount(),
				NullCount:    nulls,
				NullPct:      pct,
				UniqueValues: len(distinct),
				DataType:     t.Types[i],
			})
		}
	}
	return records
}
