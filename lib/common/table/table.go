package table

import (
	"github.com/shopspring/decimal"
)

// Table is a matrix of cells with fixed-width columns.
type Table struct {
	width int
	rows  []*Row
}

// New creates a table with the given number of columns.
func New(width int) *Table {
	return &Table{width: width}
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return t.width
}

// AddRow adds a row.
func (t *Table) AddRow() *Row {
	row := &Row{cells: make([]cell, 0, t.width)}
	t.rows = append(t.rows, row)
	return row
}

// AddSeparatorRow adds a horizontal separator.
func (t *Table) AddSeparatorRow() {
	row := t.AddRow()
	for i := 0; i < t.width; i++ {
		row.cells = append(row.cells, separatorCell{})
	}
}

// Row is a table row.
type Row struct {
	cells []cell
}

// AddText adds a left-aligned text cell.
func (r *Row) AddText(content string) *Row {
	r.cells = append(r.cells, textCell{Content: content})
	return r
}

// AddNumber adds a right-aligned, sign-colored number cell.
func (r *Row) AddNumber(n decimal.Decimal) *Row {
	r.cells = append(r.cells, numberCell{n: n})
	return r
}

type cell interface {
	isSep() bool
}

type textCell struct {
	Content string
}

func (textCell) isSep() bool { return false }

type numberCell struct {
	n decimal.Decimal
}

func (numberCell) isSep() bool { return false }

type separatorCell struct{}

func (separatorCell) isSep() bool { return true }
