package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress is returned for text that is neither an A1 address
// nor a defined name.
var ErrInvalidAddress = errors.New("invalid address")

// AddressError reports the text that failed to resolve.
type AddressError struct {
	Address string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%v: %q", ErrInvalidAddress, e.Address)
}

func (e *AddressError) Unwrap() error {
	return ErrInvalidAddress
}

// Range is a rectangular block of cells. The zero Range is empty.
type Range struct {
	Row  int
	Col  int
	Rows int
	Cols int
}

func NewRange(row, col, rows, cols int) Range {
	return Range{Row: row, Col: col, Rows: rows, Cols: cols}
}

// Span builds a range from inclusive corners given in any order.
func Span(row1, col1, row2, col2 int) Range {
	return Range{
		Row:  min(row1, row2),
		Col:  min(col1, col2),
		Rows: max(row1, row2) - min(row1, row2) + 1,
		Cols: max(col1, col2) - min(col1, col2) + 1,
	}
}

func (r Range) EndRow() int   { return r.Row + r.Rows - 1 }
func (r Range) EndCol() int   { return r.Col + r.Cols - 1 }
func (r Range) IsEmpty() bool { return r.Rows <= 0 || r.Cols <= 0 }

func (r Range) Contains(row, col int) bool {
	return r.ContainsRow(row) && r.ContainsCol(col)
}

func (r Range) ContainsRow(row int) bool { return row >= r.Row && row <= r.EndRow() }
func (r Range) ContainsCol(col int) bool { return col >= r.Col && col <= r.EndCol() }

// Intersects reports whether r and o share at least one cell.
func (r Range) Intersects(o Range) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.Row <= o.EndRow() && o.Row <= r.EndRow() &&
		r.Col <= o.EndCol() && o.Col <= r.EndCol()
}

// ShiftRows follows r through n rows inserted at row at (n > 0) or -n
// rows deleted from row at on (n < 0). A range whose rows are all
// deleted comes back empty.
func (r Range) ShiftRows(at, n int) Range {
	r.Row, r.Rows = shift(r.Row, r.Rows, at, n)
	return r
}

// ShiftCols is ShiftRows for columns.
func (r Range) ShiftCols(at, n int) Range {
	r.Col, r.Cols = shift(r.Col, r.Cols, at, n)
	return r
}

func shift(start, count, at, n int) (int, int) {
	if n >= 0 {
		switch {
		case at <= start:
			start += n
		case at < start+count:
			count += n
		}
		return start, count
	}
	last := at - n - 1
	before := max(0, min(last, start-1)-at+1)
	inside := max(0, min(last, start+count-1)-max(at, start)+1)
	return start - before, count - inside
}

// String renders the range as "A1:C3", or "A1" for a single cell.
func (r Range) String() string {
	if r.IsEmpty() {
		return ""
	}
	start := ColRowToName(r.Col, r.Row)
	if r.Rows == 1 && r.Cols == 1 {
		return start
	}
	return start + ":" + ColRowToName(r.EndCol(), r.EndRow())
}

// ParseRange parses "B2:D9" or a single cell "B2".
func ParseRange(addr string) (Range, error) {
	left, right, isPair := strings.Cut(strings.TrimSpace(addr), ":")
	r1, c1, ok := ParseCellRef(left)
	if !ok {
		return Range{}, &AddressError{Address: addr}
	}
	if !isPair {
		return NewRange(r1, c1, 1, 1), nil
	}
	r2, c2, ok := ParseCellRef(right)
	if !ok {
		return Range{}, &AddressError{Address: addr}
	}
	return Span(r1, c1, r2, c2), nil
}

// Names maps defined names (case-insensitive) to ranges.
type Names map[string]Range

func (n Names) Define(name string, r Range) {
	n[strings.ToUpper(strings.TrimSpace(name))] = r
}

func (n Names) Lookup(name string) (Range, bool) {
	r, ok := n[strings.ToUpper(strings.TrimSpace(name))]
	return r, ok
}

// Resolve accepts a defined name or an A1 address. Names win.
func (n Names) Resolve(addr string) (Range, error) {
	if r, ok := n.Lookup(addr); ok {
		return r, nil
	}
	return ParseRange(addr)
}

// RowState is the visibility state a row header keeps: a zero Height
// means hidden, LastHeight is what an unhide restores.
type RowState struct {
	Height     int `yaml:"height"`
	LastHeight int `yaml:"last_height,omitempty"`
}

func (s RowState) Hidden() bool { return s.Height == 0 }
