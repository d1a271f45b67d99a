package filter

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"grider/internal/grid"
	"grider/internal/sorting"
)

// ErrColumnOutOfRange is returned for a column outside the filter range.
var ErrColumnOutOfRange = errors.New("column outside filter range")

// Condition decides which texts of one column stay visible.
type Condition struct {
	Column    int
	selectAll bool
	items     map[string]struct{}
}

// SelectAll makes the condition accept every row.
func (c *Condition) SelectAll() {
	c.selectAll = true
	c.items = map[string]struct{}{}
}

// Select restricts the condition to exactly items.
func (c *Condition) Select(items ...string) {
	c.selectAll = false
	c.items = make(map[string]struct{}, len(items))
	for _, it := range items {
		c.items[it] = struct{}{}
	}
}

func (c *Condition) IsSelectAll() bool { return c.selectAll }

func (c *Condition) Accepts(text string) bool {
	if c.selectAll {
		return true
	}
	_, ok := c.items[text]
	return ok
}

// Items returns the selected texts in sorted order.
func (c *Condition) Items() []string {
	return slices.Sorted(maps.Keys(c.items))
}

// ColumnFilter is an auto filter over a range: each column may carry a
// condition and a row shows only when every condition accepts it.
type ColumnFilter struct {
	Range      grid.Range
	conditions map[int]*Condition
}

func NewColumnFilter(rng grid.Range) *ColumnFilter {
	return &ColumnFilter{Range: rng, conditions: map[int]*Condition{}}
}

// Column returns the condition of col, creating a select-all one.
func (f *ColumnFilter) Column(col int) (*Condition, error) {
	if !f.Range.ContainsCol(col) {
		return nil, fmt.Errorf("%w: %s", ErrColumnOutOfRange, grid.ColToName(col))
	}
	c, ok := f.conditions[col]
	if !ok {
		c = &Condition{Column: col}
		c.SelectAll()
		f.conditions[col] = c
	}
	return c, nil
}

// ShiftRows keeps the filter on its rows after a row insert or delete,
// see grid.Range.ShiftRows.
func (f *ColumnFilter) ShiftRows(at, n int) {
	f.Range = f.Range.ShiftRows(at, n)
}

// ShiftCols moves the range and the column conditions after a column
// insert or delete. Conditions of deleted columns are dropped.
func (f *ColumnFilter) ShiftCols(at, n int) {
	f.Range = f.Range.ShiftCols(at, n)
	next := make(map[int]*Condition, len(f.conditions))
	for col, c := range f.conditions {
		switch {
		case n < 0 && col >= at && col < at-n:
			continue
		case col >= at:
			col += n
		}
		c.Column = col
		next[col] = c
	}
	f.conditions = next
}

// Conditions lists the column conditions ordered by column.
func (f *ColumnFilter) Conditions() []*Condition {
	out := make([]*Condition, 0, len(f.conditions))
	for _, col := range slices.Sorted(maps.Keys(f.conditions)) {
		out = append(out, f.conditions[col])
	}
	return out
}

// DistinctItems lists the distinct texts of col inside the range in
// ascending natural order, blanks last.
func (f *ColumnFilter) DistinctItems(src grid.Source, col int) ([]string, error) {
	if !f.Range.ContainsCol(col) {
		return nil, fmt.Errorf("%w: %s", ErrColumnOutOfRange, grid.ColToName(col))
	}
	seen := map[string]grid.Value{}
	for r := f.Range.Row; r <= f.Range.EndRow(); r++ {
		v, _ := src.Cell(r, col)
		text := v.String()
		if _, ok := seen[text]; !ok {
			seen[text] = v
		}
	}
	vals := slices.Collect(maps.Values(seen))
	slices.SortFunc(vals, func(a, b grid.Value) int {
		if c := sorting.Compare(a, b, sorting.Ascending); c != 0 {
			return c
		}
		return strings.Compare(a.String(), b.String())
	})
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out, nil
}

// Accepts reports whether row passes every condition.
func (f *ColumnFilter) Accepts(src grid.Source, row int) bool {
	for col, c := range f.conditions {
		v, _ := src.Cell(row, col)
		if !c.Accepts(v.String()) {
			return false
		}
	}
	return true
}

// Apply shows the rows accepted by every condition and hides the rest.
func (f *ColumnFilter) Apply(src grid.Source, rows Rows) RowsFiltered {
	return Apply(rows, f.Range, func(row int) bool { return f.Accepts(src, row) })
}

// Clear drops every condition.
func (f *ColumnFilter) Clear() {
	f.conditions = map[int]*Condition{}
}
