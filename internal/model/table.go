package model

// Table is the flat artifact derived from one AnalyticsReport: an ordered
// header and an ordered sequence of rows, each with exactly len(Header)
// cells. Cells are already-rendered strings; a missing value is the empty
// string, never "null" or "0".
type Table struct {
	// Header holds the column names, pairwise distinct.
	Header []string

	// Rows holds one entry per leaf node, in depth-first input order.
	Rows [][]string
}

// ColumnCount returns the number of columns in the table.
func (t *Table) ColumnCount() int {
	return len(t.Header)
}

// RowCount returns the number of data rows (the header is not counted).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// HasColumn reports whether the header contains the given column name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}
