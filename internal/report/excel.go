package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"csvaudit/internal/analysis"
)

// Excel sheet names.
const (
	sheetOverview      = "Overview"
	sheetRelationships = "Relationships"
	sheetCoverage      = "Coverage"
)

// WriteExcel saves the audit result as a workbook with one sheet each for
// the overview, the relationship metrics, and the column coverage.
func WriteExcel(res *analysis.Result, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]interface{}
	}{
		{sheetOverview, overviewHeaders, overviewRows(res)},
		{sheetRelationships, relationshipHeaders, relationshipRows(res)},
		{sheetCoverage, coverageHeaders, coverageRows(res)},
	}

	first := 0
	for i, sheet := range sheets {
		index, err := f.NewSheet(sheet.name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}
		if i == 0 {
			first = index
		}
		if err := fillSheet(f, sheet.name, headerStyle, sheet.headers, sheet.rows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(first)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, name string, headerStyle int, headers []string, rows [][]interface{}) error {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, header); err != nil {
			return fmt.Errorf("failed to write header on %s: %w", name, err)
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header on %s: %w", name, err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s on %s: %w", cell, name, err)
			}
		}
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, col, col, 18); err != nil {
			return fmt.Errorf("failed to size column %s on %s: %w", col, name, err)
		}
	}
	return nil
}

var overviewHeaders = []string{
	"File", "Rows", "Columns", "File Size (MB)", "Memory (MB)",
	"Total Nulls", "Nulls (%)", "Type Issues", "Mismatch Details", "Date Range",
}

func overviewRows(res *analysis.Result) [][]interface{} {
	rows := make([][]interface{}, 0, len(res.Tables))
	for _, t := range res.Tables {
		rows = append(rows, []interface{}{
			t.File, t.Rows, t.Columns, t.FileSizeMB, t.MemoryMB,
			t.TotalNulls, t.NullPct, len(t.Mismatches), t.MismatchDetails(), t.DateRange,
		})
	}
	return rows
}

var relationshipHeaders = []string{
	"Parent Table", "Parent Key", "Child Table", "Child Key",
	"Parent Unique", "Child Refs", "Valid", "Invalid", "Integrity (%)", "Type",
}

func relationshipRows(res *analysis.Result) [][]interface{} {
	rows := make([][]interface{}, 0, len(res.Relationships))
	for _, rel := range res.Relationships {
		rows = append(rows, []interface{}{
			rel.ParentTable, rel.ParentKey, rel.ChildTable, rel.ChildKey,
			rel.ParentUniqueValues, rel.ChildTotalRefs, rel.ValidRefs, rel.InvalidRefs,
			rel.IntegrityPct, rel.Type,
		})
	}
	return rows
}

var coverageHeaders = []string{
	"Table", "Column", "Total Rows", "Null Count", "Null (%)", "Unique Values", "Data Type",
}

func coverageRows(res *analysis.Result) [][]interface{} {
	rows := make([][]interface{}, 0, len(res.Coverage))
	for _, c := range res.Coverage {
		rows = append(rows, []interface{}{
			c.Table, c.Column, c.TotalRows, c.NullCount, c.NullPct, c.UniqueValues, c.DataType.String(),
		})
	}
	return rows
}
