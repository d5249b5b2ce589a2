package ecsv

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/stellarkit/ecsv/core/convert"
)

// Table is the built-in sink: an ordered set of named typed columns.
type Table struct {
	cols   []*convert.Column
	byName map[string]*convert.Column
}

// NewTable is a SinkFunc producing a Table.
func NewTable(cols []*convert.Column) (*Table, error) {
	byName := make(map[string]*convert.Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}
	return &Table{cols: cols, byName: byName}, nil
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Names returns the column names in schema order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *convert.Column {
	return t.byName[name]
}

// Columns returns the columns in schema order.
func (t *Table) Columns() []*convert.Column {
	return t.cols
}

// Record assembles the table into an Arrow record batch. Units appear as
// field metadata. The record borrows the table's arrays: release the
// record before the table.
func (t *Table) Record() arrow.Record {
	fields := make([]arrow.Field, len(t.cols))
	arrays := make([]arrow.Array, len(t.cols))
	for i, c := range t.cols {
		fields[i] = c.Field()
		arrays[i] = c.Data
	}
	s := arrow.NewSchema(fields, nil)
	return array.NewRecord(s, arrays, int64(t.NumRows()))
}

// Release releases all column storage.
func (t *Table) Release() {
	for _, c := range t.cols {
		c.Release()
	}
	t.cols = nil
	t.byName = nil
}
