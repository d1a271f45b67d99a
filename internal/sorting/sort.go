package sorting

import (
	"errors"
	"fmt"
	"slices"

	"grider/internal/grid"
)

var (
	// ErrInvalidRangeShape means rows of the range disagree on which cells
	// are usable, so whole rows cannot be moved.
	ErrInvalidRangeShape = errors.New("range cells do not share the same layout on every row")
	// ErrEmptySortKeys means no key column was given.
	ErrEmptySortKeys = errors.New("no sort key columns")
	// ErrColumnOutOfRange means a key column lies outside the range.
	ErrColumnOutOfRange = errors.New("sort key column outside range")
)

// Result is the outcome of Sort.
//
// Block holds the new values for Affected only, row-major. Remap maps
// every row of the sorted range from its old sheet index to its new one.
type Result struct {
	Block    [][]grid.Value
	Affected grid.Range
	Remap    map[int]int
}

// Changed reports whether the sort moved any value.
func (r *Result) Changed() bool { return !r.Affected.IsEmpty() }

type options struct {
	comparer Comparer
}

// Option customizes Sort.
type Option func(*options)

// WithComparer replaces the built-in value comparison. Empty values still
// sort last; c only ever sees two non-empty values. The same comparer is
// used at every key level.
func WithComparer(c Comparer) Option {
	return func(o *options) {
		if c != nil {
			o.comparer = c
		}
	}
}

type row struct {
	index int
	cells []grid.Value
}

// Sort computes the stable reordering of rng's rows by the key columns.
// Keys are sheet column indices inside rng, primary key first. The
// source is only read; apply the result with Result.Action.
func Sort(src grid.Source, rng grid.Range, keys []int, order Order, opts ...Option) (*Result, error) {
	o := options{comparer: Natural{}}
	for _, opt := range opts {
		opt(&o)
	}

	if len(keys) == 0 {
		return nil, ErrEmptySortKeys
	}
	if rng.IsEmpty() {
		return nil, fmt.Errorf("%w: empty range", ErrInvalidRangeShape)
	}
	for _, k := range keys {
		if !rng.ContainsCol(k) {
			return nil, fmt.Errorf("%w: column %s not in %s", ErrColumnOutOfRange, grid.ColToName(k), rng)
		}
	}
	if err := checkShape(src, rng); err != nil {
		return nil, err
	}

	rows := make([]row, rng.Rows)
	for i := range rows {
		r := row{index: rng.Row + i, cells: make([]grid.Value, rng.Cols)}
		for c := range r.cells {
			r.cells[c], _ = src.Cell(r.index, rng.Col+c)
		}
		rows[i] = r
	}
	original := slices.Clone(rows)

	cmp := newEmptyLast(o.comparer, order)
	sign := order.sign()
	slices.SortStableFunc(rows, func(a, b row) int {
		for _, k := range keys {
			if c := cmp.Compare(a.cells[k-rng.Col], b.cells[k-rng.Col]); c != 0 {
				return c * sign
			}
		}
		return 0
	})

	res := &Result{Remap: make(map[int]int, len(rows))}
	top, bottom, left, right := -1, -1, -1, -1
	for i, r := range rows {
		newIndex := rng.Row + i
		res.Remap[r.index] = newIndex
		if r.index == newIndex {
			continue
		}
		for c, v := range r.cells {
			if v.Equal(original[i].cells[c]) {
				continue
			}
			if top < 0 {
				top = i
			}
			bottom = i
			if left < 0 || c < left {
				left = c
			}
			right = max(right, c)
		}
	}
	if top < 0 {
		return res, nil
	}

	res.Affected = grid.NewRange(rng.Row+top, rng.Col+left, bottom-top+1, right-left+1)
	res.Block = make([][]grid.Value, res.Affected.Rows)
	for i := range res.Block {
		res.Block[i] = slices.Clone(rows[top+i].cells[left : right+1])
	}
	return res, nil
}

// checkShape requires every row to agree with the first row on whether a
// column's cell is usable. Absent cells agree with anything.
func checkShape(src grid.Source, rng grid.Range) error {
	for c := rng.Col; c <= rng.EndCol(); c++ {
		_, first := src.Cell(rng.Row, c)
		if first == grid.CellAbsent {
			continue
		}
		for r := rng.Row + 1; r <= rng.EndRow(); r++ {
			_, st := src.Cell(r, c)
			if st != grid.CellAbsent && (st == grid.CellValid) != (first == grid.CellValid) {
				return fmt.Errorf("%w: %s", ErrInvalidRangeShape, grid.ColRowToName(c, r))
			}
		}
	}
	return nil
}
