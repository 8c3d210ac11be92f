package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

// DefaultRowPattern keeps the box_mask rows thresholded at >=12.0.
const DefaultRowPattern = `(box_mask).+(>=12.0)`

var (
	ErrEmptyInput        = errors.New("input has no header line")
	ErrNoMatchingColumns = errors.New("no matching columns")
	// ErrColumnMismatch means a selector match is not a whole header token.
	ErrColumnMismatch = errors.New("selector match is not a header column")
)

// HeaderMap maps a column name to its zero-based position in the header.
// Repeated names keep the last position seen.
type HeaderMap map[string]int

// Column describes one selected column: the matched header text, its index
// in the whitespace-split header and the byte span of the match in the raw
// header line.
type Column struct {
	Name  string
	Index int
	Start int
	End   int
	Cells []Cell
}

// Values returns the cell values in row order. Defaulted cells read as 0.
func (c *Column) Values() []float64 {
	vals := make([]float64, len(c.Cells))
	for i, cell := range c.Cells {
		vals[i] = cell.Value()
	}
	return vals
}

// Defaulted counts the cells that did not parse.
func (c *Column) Defaulted() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Defaulted() {
			n++
		}
	}
	return n
}

// DefaultReason says why a cell fell back to 0.0.
type DefaultReason int

const (
	Parsed DefaultReason = iota
	NonNumeric
	Missing
)

func (r DefaultReason) String() string {
	switch r {
	case Parsed:
		return "parsed"
	case NonNumeric:
		return "non-numeric"
	case Missing:
		return "missing"
	default:
		return fmt.Sprintf("DefaultReason(%d)", int(r))
	}
}

// Cell is the parse result of one table cell: either a value read from the
// file, or a 0.0 default together with the reason.
type Cell struct {
	Raw    string
	value  float64
	Reason DefaultReason
}

// ValueCell returns a successfully parsed cell.
func ValueCell(raw string, v float64) Cell {
	return Cell{Raw: raw, value: v, Reason: Parsed}
}

// DefaultCell returns a 0.0 cell for a token that could not be used.
func DefaultCell(raw string, reason DefaultReason) Cell {
	return Cell{Raw: raw, Reason: reason}
}

func (c Cell) Value() float64 {
	if c.Reason != Parsed {
		return 0
	}
	return c.value
}

func (c Cell) Defaulted() bool { return c.Reason != Parsed }

// Table is the matrix extracted by one LoadTable call. Columns keep header
// order and are addressed by their file index through Column.
type Table struct {
	Header  string
	Headers HeaderMap
	Columns []Column
	NumRows int
	// ParseErrors collects the non-fatal cell problems met while loading.
	ParseErrors []string
}

// Column returns the selected column at file index idx.
func (t *Table) Column(idx int) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Index == idx {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Names returns the selected column names in header order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
