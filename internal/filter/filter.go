// Package filter hides and shows rows by zeroing and restoring their
// heights.
package filter

import (
	"grider/internal/grid"
)

// Rows is the row header store a filter works against.
type Rows interface {
	RowState(row int) grid.RowState
	SetRowState(row int, st grid.RowState)
}

// RowsFiltered is raised once per Apply.
type RowsFiltered struct {
	Range grid.Range
}

// Apply calls show for every row of rng's row span. Hidden rows that
// should show get their last height back; visible rows that should hide
// remember their height before dropping to zero. Rows already in the
// wanted state are left untouched.
func Apply(rows Rows, rng grid.Range, show func(row int) bool) RowsFiltered {
	for r := rng.Row; r <= rng.EndRow(); r++ {
		st := rows.RowState(r)
		if show(r) {
			if st.Hidden() && st.LastHeight > 0 {
				st.Height = st.LastHeight
				rows.SetRowState(r, st)
			}
			continue
		}
		if !st.Hidden() {
			st.LastHeight = st.Height
			st.Height = 0
			rows.SetRowState(r, st)
		}
	}
	return RowsFiltered{Range: rng}
}

// ShowAll unhides every row of rng.
func ShowAll(rows Rows, rng grid.Range) RowsFiltered {
	return Apply(rows, rng, func(int) bool { return true })
}
