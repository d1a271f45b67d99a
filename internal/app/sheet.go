package app

import (
	"math"
	"strconv"
	"strings"

	"grider/internal/calc"
	"grider/internal/grid"
)

// Cell implements grid.Source. Formula cells yield their computed value
// with the formula text attached as source, so a sort moves the formula
// but orders by its result.
func (a *App) Cell(row, col int) (grid.Value, grid.CellState) {
	c, ok := a.Grid[[2]int{row, col}]
	if !ok {
		return grid.Empty(), grid.CellAbsent
	}
	state := grid.CellValid
	if c.Covered {
		state = grid.CellCovered
	}
	if !strings.HasPrefix(c.Text, "=") {
		return grid.ParseValue(c.Text).WithSource(c.Text), state
	}
	val, code := a.evalCell(row, col)
	if code != "" {
		return grid.Text(code).WithSource(c.Text), state
	}
	return grid.Number(val).WithSource(c.Text), state
}

// SetCell implements sorting.Writer.
func (a *App) SetCell(row, col int, v grid.Value) {
	a.EnsureRowExists(row)
	a.EnsureColExists(col)
	a.Grid.SetCell(row, col, v)
}

// RowState implements filter.Rows. Rows past the known ones have the
// default height.
func (a *App) RowState(row int) grid.RowState {
	if row >= 0 && row < len(a.Rows) {
		return a.Rows[row]
	}
	return grid.RowState{Height: a.DefaultHeight}
}

func (a *App) SetRowState(row int, st grid.RowState) {
	a.EnsureRowExists(row)
	a.Rows[row] = st
}

func (a *App) GetDisplayText(r, c int) string {
	cell, ok := a.Grid[[2]int{r, c}]
	if !ok || cell.Text == "" {
		return ""
	}
	if !strings.HasPrefix(cell.Text, "=") {
		return cell.Text
	}
	val, code := a.evalCell(r, c)
	if code != "" {
		return code
	}
	if math.Abs(val-math.Round(val)) < 1e-9 {
		return grid.FormatNumber(math.Round(val))
	}
	s := strconv.FormatFloat(val, 'f', 6, 64)
	return strings.TrimRight(strings.TrimRight(s, "0"), ".")
}

func (a *App) evalCell(row, col int) (float64, string) {
	key := [2]int{row, col}
	visited := map[[2]int]bool{key: true}
	return a.eval(a.Grid[key].Text[1:], visited)
}

func (a *App) eval(expr string, visited map[[2]int]bool) (float64, string) {
	return calc.Eval(expr, func(name string) (float64, string) {
		r, c, ok := grid.ParseCellRef(name)
		if !ok {
			return 0, calc.ErrRef
		}
		k := [2]int{r, c}
		if visited[k] {
			return 0, calc.ErrCycle
		}
		cell, ok := a.Grid[k]
		if !ok || cell.Text == "" {
			return 0, ""
		}
		if strings.HasPrefix(cell.Text, "=") {
			visited[k] = true
			defer delete(visited, k)
			return a.eval(cell.Text[1:], visited)
		}
		v, ok := grid.ParseValue(cell.Text).Float()
		if !ok {
			return 0, calc.ErrGeneric
		}
		return v, ""
	})
}

// contentRange spans every used column from the first row below the
// title rows to the last used row. It is empty when there is no content
// there.
func (a *App) contentRange() grid.Range {
	maxR, maxC := a.Grid.Bounds()
	if maxR < a.TitleRows || maxC < 0 {
		return grid.Range{}
	}
	return grid.Span(a.TitleRows, 0, maxR, maxC)
}

// nextVisible steps from row in direction dir (+1 or -1) to the nearest
// row that is not hidden. It returns row when there is none upwards.
func (a *App) nextVisible(row, dir int) int {
	for r := row + dir; r >= 0; r += dir {
		if !a.RowState(r).Hidden() {
			return r
		}
	}
	return row
}
