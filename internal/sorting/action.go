package sorting

import (
	"grider/internal/grid"
)

// Writer stores values into the sheet. An empty value clears the cell.
type Writer interface {
	SetCell(row, col int, v grid.Value)
}

// SetRangeAction writes a sorted block back as one undoable step.
type SetRangeAction struct {
	Range grid.Range
	Block [][]grid.Value

	prev [][]grid.Value
}

// Action returns the write-back step for r, nil when nothing changed.
func (r *Result) Action() *SetRangeAction {
	if !r.Changed() {
		return nil
	}
	return &SetRangeAction{Range: r.Affected, Block: r.Block}
}

// Do remembers what the block overwrites, then writes it.
func (a *SetRangeAction) Do(src grid.Source, w Writer) {
	a.prev = make([][]grid.Value, a.Range.Rows)
	for i := range a.prev {
		a.prev[i] = make([]grid.Value, a.Range.Cols)
		for j := range a.prev[i] {
			a.prev[i][j], _ = src.Cell(a.Range.Row+i, a.Range.Col+j)
		}
	}
	write(w, a.Range, a.Block)
}

// Undo restores the values seen by Do. It is a no-op before Do.
func (a *SetRangeAction) Undo(w Writer) {
	if a.prev == nil {
		return
	}
	write(w, a.Range, a.prev)
}

func write(w Writer, rng grid.Range, block [][]grid.Value) {
	for i, line := range block {
		for j, v := range line {
			w.SetCell(rng.Row+i, rng.Col+j, v)
		}
	}
}

// RowsSorted is the notification raised after a sort changed the sheet.
type RowsSorted struct {
	Affected grid.Range
	Remap    map[int]int
}

// Event returns the notification payload for r.
func (r *Result) Event() RowsSorted {
	return RowsSorted{Affected: r.Affected, Remap: r.Remap}
}

// NewRow maps an old row through the remap; rows outside it keep their index.
func (e RowsSorted) NewRow(old int) int {
	if n, ok := e.Remap[old]; ok {
		return n
	}
	return old
}

// Inverse is the notification for putting the rows of e back.
func (e RowsSorted) Inverse() RowsSorted {
	back := make(map[int]int, len(e.Remap))
	for old, n := range e.Remap {
		back[n] = old
	}
	return RowsSorted{Affected: e.Affected, Remap: back}
}
