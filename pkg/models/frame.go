package models

// Frame is a raw table read from a CSV file: ordered column names and
// string cells. Missing cells are empty strings.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// Shape returns (rows, columns)
func (f *Frame) Shape() (int, int) {
	return len(f.Rows), len(f.Columns)
}

// ColumnIndex returns the position of a column or -1
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the frame has the named column
func (f *Frame) HasColumn(name string) bool {
	return f.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's cells, nil if absent
func (f *Frame) Column(name string) []string {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		values[i] = cell(row, idx)
	}
	return values
}

// Cell returns the value at (row, column name), empty if absent
func (f *Frame) Cell(row int, name string) string {
	if row < 0 || row >= len(f.Rows) {
		return ""
	}
	return cell(f.Rows[row], f.ColumnIndex(name))
}

// DropColumn returns a new frame without the named column.
// The receiver is returned unchanged when the column does not exist.
func (f *Frame) DropColumn(name string) *Frame {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return f
	}

	columns := make([]string, 0, len(f.Columns)-1)
	columns = append(columns, f.Columns[:idx]...)
	columns = append(columns, f.Columns[idx+1:]...)

	rows := make([][]string, len(f.Rows))
	for i, row := range f.Rows {
		out := make([]string, 0, len(columns))
		for j := range f.Columns {
			if j == idx {
				continue
			}
			out = append(out, cell(row, j))
		}
		rows[i] = out
	}

	return &Frame{Columns: columns, Rows: rows}
}

// WithColumn returns a new frame where the named column holds values.
// The column is appended when missing.
func (f *Frame) WithColumn(name string, values []string) *Frame {
	idx := f.ColumnIndex(name)
	columns := append([]string(nil), f.Columns...)
	if idx < 0 {
		columns = append(columns, name)
		idx = len(columns) - 1
	}

	rows := make([][]string, len(f.Rows))
	for i, row := range f.Rows {
		out := make([]string, len(columns))
		copy(out, row)
		if i < len(values) {
			out[idx] = values[i]
		}
		rows[i] = out
	}

	return &Frame{Columns: columns, Rows: rows}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
