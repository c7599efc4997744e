package dataset

// Table is one CSV file held in memory: ordered header, raw text rows, and
// the inferred type per column. An empty cell is a null.
type Table struct {
	Name      string // file name, the table's identity in config and reports
	Path      string
	SizeBytes int64
	Header    []string
	Rows      [][]string
	Types     []ColumnType
}

// RowCount returns the number of data rows (header excluded).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Header)
}

// ColumnIndex finds a column by name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// ColumnValues returns the raw values of column i, one per row.
func (t *Table) ColumnValues(i int) []string {
	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return values
}

const (
	stringHeaderBytes = 16
	sliceHeaderBytes  = 24
)

// MemoryBytes estimates the table's in-memory footprint: cell bytes plus
// string and slice header overhead.
func (t *Table) MemoryBytes() int64 {
	var n int64
	for _, h := range t.Header {
		n += int64(len(h)) + stringHeaderBytes
	}
	n += sliceHeaderBytes
	for _, row := range t.Rows {
		n += sliceHeaderBytes
		for _, cell := range row {
			n += int64(len(cell)) + stringHeaderBytes
		}
	}
	return n
}

// LoadError records a file that could not be parsed. The rest of the
// directory still loads.
type LoadError struct {
	File string
	Err  error
}

// Collection is the set of tables loaded from one directory, ordered by file
// name, plus the per-file errors encountered along the way.
type Collection struct {
	Tables []*Table
	Errors []LoadError

	byName map[string]*Table
}

// NewCollection assembles a Collection from already-built tables, keeping
// their order.
func NewCollection(tables ...*Table) *Collection {
	c := &Collection{byName: make(map[string]*Table)}
	for _, t := range tables {
		c.add(t)
	}
	return c
}

func (c *Collection) add(t *Table) {
	c.Tables = append(c.Tables, t)
	c.byName[t.Name] = t
}

// Get looks a table up by file name.
func (c *Collection) Get(name string) (*Table, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Len returns the number of successfully loaded tables.
func (c *Collection) Len() int {
	return len(c.Tables)
}

// TotalRows sums the row counts of all loaded tables.
func (c *Collection) TotalRows() int {
	total := 0
	for _, t := range c.Tables {
		total += t.RowCount()
	}
	return total
}
