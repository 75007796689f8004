// Package dataset is the in-memory tabular model the migration engine reads
// from and writes into: a Dataset is an ordered collection of named sheets,
// a sheet an ordered collection of titled columns, a column a slice of cell
// values. File format handling lives elsewhere (see internal/xlsxio); the
// engine itself never touches the filesystem.
package dataset

import "fmt"

// Column is a titled run of cell values. A cell is a string, number, bool,
// or nil.
type Column struct {
	Title   string
	Comment string
	Data    []any
}

// Rows returns the number of populated cells.
func (c *Column) Rows() int {
	return len(c.Data)
}

// Sheet is an ordered set of columns with unique titles.
type Sheet struct {
	Name    string
	columns []*Column
	index   map[string]int
}

// NewSheet creates an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{Name: name, index: make(map[string]int)}
}

// AppendColumn adds a column at the end of the sheet. Titles are unique
// within a sheet.
func (s *Sheet) AppendColumn(c *Column) error {
	if _, exists := s.index[c.Title]; exists {
		return fmt.Errorf("sheet %q: column title %q already exists", s.Name, c.Title)
	}
	s.index[c.Title] = len(s.columns)
	s.columns = append(s.columns, c)
	return nil
}

// Column returns the column with the given title.
func (s *Sheet) Column(title string) (*Column, bool) {
	i, ok := s.index[title]
	if !ok {
		return nil, false
	}
	return s.columns[i], true
}

// Columns returns the columns in declared order. The slice is shared;
// callers must not modify it.
func (s *Sheet) Columns() []*Column {
	return s.columns
}

// Rows returns the row count of the longest column.
func (s *Sheet) Rows() int {
	max := 0
	for _, c := range s.columns {
		if len(c.Data) > max {
			max = len(c.Data)
		}
	}
	return max
}

// Dataset is an ordered collection of sheets with unique names.
type Dataset struct {
	sheets []*Sheet
	index  map[string]int
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// AddSheet appends an empty sheet with the given name.
func (d *Dataset) AddSheet(name string) (*Sheet, error) {
	if _, exists := d.index[name]; exists {
		return nil, fmt.Errorf("sheet %q already exists", name)
	}
	s := NewSheet(name)
	d.index[name] = len(d.sheets)
	d.sheets = append(d.sheets, s)
	return s, nil
}

// Sheet returns the sheet with the given name.
func (d *Dataset) Sheet(name string) (*Sheet, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.sheets[i], true
}

// Sheets returns the sheets in declared order. The slice is shared; callers
// must not modify it.
func (d *Dataset) Sheets() []*Sheet {
	return d.sheets
}
