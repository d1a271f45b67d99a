package app

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"grider/internal/config"
	"grider/internal/filter"
	"grider/internal/grid"
	"grider/internal/sorting"
)

type App struct {
	// layout
	LeftGutter    int
	StatusLines   int
	DefaultWidth  int
	DefaultHeight int
	CellPadding   int

	// sheet
	ColWidths []int
	Rows      []grid.RowState
	Grid      grid.Map
	Names     grid.Names
	Filter    *filter.ColumnFilter
	TitleRows int
	Comparer  sorting.Comparer

	// cursor / view
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	// UI state
	Mode     string // normal | insert
	InputBuf string
	Status   string
	Quit     bool

	// editing behavior options
	EnterStartsEdit     bool
	PrintableStartsEdit bool
	MoveAfterEnter      bool
	SelectAllOnEdit     bool
	ReplaceOnNextRune   bool

	HelpVisible bool

	history        []sortStep
	sortListeners  []func(sorting.RowsSorted)
	filterListener []func(filter.RowsFiltered)
}

// sortStep is one undoable sort: the written block and how rows moved.
type sortStep struct {
	rng grid.Range
	act *sorting.SetRangeAction
	ev  sorting.RowsSorted
}

// NewApp builds an empty sheet configured by cfg (nil means defaults).
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		LeftGutter:          4,
		StatusLines:         2,
		DefaultWidth:        cfg.DefaultWidth,
		DefaultHeight:       cfg.DefaultHeight,
		CellPadding:         1,
		Grid:                grid.Map{},
		Names:               grid.Names{},
		TitleRows:           cfg.TitleRows,
		Mode:                "normal",
		EnterStartsEdit:     *cfg.EnterStartsEdit,
		PrintableStartsEdit: *cfg.PrintableStartsEdit,
		MoveAfterEnter:      *cfg.MoveAfterEnter,
		SelectAllOnEdit:     *cfg.SelectAllOnEdit,
	}
	if cfg.Collation != "" {
		n, err := sorting.NewNatural(cfg.Collation)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ignoring collation %q: %v\n", cfg.Collation, err)
		} else {
			a.Comparer = n
		}
	}
	a.EnsureColExists(7)
	a.EnsureRowExists(7)
	return a
}

// OnRowsSorted registers fn to run after every sort that changed cells.
func (a *App) OnRowsSorted(fn func(sorting.RowsSorted)) {
	a.sortListeners = append(a.sortListeners, fn)
}

// OnRowsFiltered registers fn to run after rows were shown or hidden.
func (a *App) OnRowsFiltered(fn func(filter.RowsFiltered)) {
	a.filterListener = append(a.filterListener, fn)
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.Mode == "insert" {
		a.handleInsertKey(ev)
		return
	}

	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	mod := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyEsc:
		a.Status = ""
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyCtrlZ:
		a.ExecuteCommand("undo")
	case tcell.KeyUp:
		if mod&tcell.ModCtrl != 0 {
			st := a.RowState(a.CurRow)
			if st.Height > 1 {
				st.Height--
				a.SetRowState(a.CurRow, st)
			}
		} else {
			a.CurRow = a.nextVisible(a.CurRow, -1)
		}
	case tcell.KeyDown:
		if mod&tcell.ModCtrl != 0 {
			st := a.RowState(a.CurRow)
			st.Height++
			a.SetRowState(a.CurRow, st)
		} else {
			a.CurRow = a.nextVisible(a.CurRow, 1)
			a.EnsureRowExists(a.CurRow)
		}
	case tcell.KeyLeft:
		if mod&tcell.ModCtrl != 0 {
			if a.CurCol < len(a.ColWidths) && a.ColWidths[a.CurCol] > 4 {
				a.ColWidths[a.CurCol]--
			}
		} else if a.CurCol > 0 {
			a.CurCol--
		}
	case tcell.KeyRight:
		if mod&tcell.ModCtrl != 0 {
			if a.CurCol < len(a.ColWidths) {
				a.ColWidths[a.CurCol]++
			}
		} else {
			a.CurCol++
			a.EnsureColExists(a.CurCol)
		}
	case tcell.KeyPgUp:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = max(0, a.ViewRow-vr)
	case tcell.KeyPgDn:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = min(a.ViewRow+vr, max(0, len(a.Rows)-1))
	case tcell.KeyHome:
		a.ViewCol, a.ViewRow = 0, 0
	case tcell.KeyEnd:
		a.ViewCol = max(0, len(a.ColWidths)-1)
		a.ViewRow = max(0, len(a.Rows)-1)
	case tcell.KeyF2:
		a.InsertRow(a.CurRow + 1)
	case tcell.KeyF3:
		a.InsertCol(a.CurCol + 1)
	case tcell.KeyF4:
		a.DeleteRow(a.CurRow)
	case tcell.KeyF5:
		a.DeleteCol(a.CurCol)
	case tcell.KeyEnter:
		if a.EnterStartsEdit {
			a.startEdit()
		}
	default:
		a.handleRune(s, ev.Rune())
	}
}

func (a *App) handleInsertKey(ev *tcell.EventKey) {
	mod := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyEsc:
		a.Mode = "normal"
		a.InputBuf = ""
		a.ReplaceOnNextRune = false
	case tcell.KeyEnter:
		if mod&(tcell.ModShift|tcell.ModAlt) != 0 {
			a.InputBuf += "\n"
			return
		}
		a.SetCellValue(a.InputBuf)
		a.Mode = "normal"
		a.InputBuf = ""
		a.ReplaceOnNextRune = false
		if mod&tcell.ModCtrl == 0 && a.MoveAfterEnter {
			a.CurRow = a.nextVisible(a.CurRow, 1)
			a.EnsureRowExists(a.CurRow)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(a.InputBuf); len(r) > 0 {
			a.InputBuf = string(r[:len(r)-1])
		}
		a.ReplaceOnNextRune = false
	default:
		r := ev.Rune()
		if r == 0 {
			return
		}
		if a.ReplaceOnNextRune {
			a.InputBuf = string(r)
			a.ReplaceOnNextRune = false
		} else {
			a.InputBuf += string(r)
		}
	}
}

func (a *App) handleRune(s tcell.Screen, r rune) {
	switch r {
	case 0:
	case 'q':
		a.Quit = true
	case 'i':
		a.startEdit()
	case 'u':
		a.ExecuteCommand("undo")
	case ':':
		if cmd, ok := a.PopupInput(s, ":", ""); ok {
			a.ExecuteCommand(cmd)
		}
	case '=':
		if value, ok := a.PopupInput(s, "", "="); ok {
			a.SetCellValue(value)
		}
	case '?':
		a.HelpVisible = true
	default:
		if a.PrintableStartsEdit {
			a.Mode = "insert"
			a.InputBuf = string(r)
			a.ReplaceOnNextRune = false
		}
	}
}

func (a *App) startEdit() {
	a.Mode = "insert"
	a.InputBuf = a.Grid[[2]int{a.CurRow, a.CurCol}].Text
	a.ReplaceOnNextRune = a.SelectAllOnEdit
}

// SetCellValue stores text in the current cell; empty text clears it.
func (a *App) SetCellValue(value string) {
	a.SetCell(a.CurRow, a.CurCol, grid.Text(value))
}

// ----------------------------- Structure -----------------------------

func (a *App) EnsureColExists(idx int) {
	for len(a.ColWidths) <= idx {
		a.ColWidths = append(a.ColWidths, a.DefaultWidth)
	}
}

func (a *App) EnsureRowExists(idx int) {
	for len(a.Rows) <= idx {
		a.Rows = append(a.Rows, grid.RowState{Height: a.DefaultHeight})
	}
}

// InsertRow adds a default row at idx and moves the cells below down.
func (a *App) InsertRow(idx int) {
	idx = min(max(idx, 0), len(a.Rows))
	a.Rows = append(a.Rows[:idx], append([]grid.RowState{{Height: a.DefaultHeight}}, a.Rows[idx:]...)...)
	a.shiftCells(func(r, c int) (int, int, bool) {
		if r >= idx {
			return r + 1, c, true
		}
		return r, c, true
	})
	a.shiftRows(idx, 1)
}

// InsertCol adds a default column at idx and moves the cells right.
func (a *App) InsertCol(idx int) {
	idx = min(max(idx, 0), len(a.ColWidths))
	a.ColWidths = append(a.ColWidths[:idx], append([]int{a.DefaultWidth}, a.ColWidths[idx:]...)...)
	a.shiftCells(func(r, c int) (int, int, bool) {
		if c >= idx {
			return r, c + 1, true
		}
		return r, c, true
	})
	a.shiftCols(idx, 1)
}

func (a *App) DeleteRow(idx int) {
	if idx < 0 || idx >= len(a.Rows) {
		return
	}
	a.Rows = append(a.Rows[:idx], a.Rows[idx+1:]...)
	a.shiftCells(func(r, c int) (int, int, bool) {
		switch {
		case r == idx:
			return 0, 0, false
		case r > idx:
			return r - 1, c, true
		}
		return r, c, true
	})
	a.shiftRows(idx, -1)
	a.CurRow = min(a.CurRow, max(0, len(a.Rows)-1))
}

func (a *App) DeleteCol(idx int) {
	if idx < 0 || idx >= len(a.ColWidths) {
		return
	}
	a.ColWidths = append(a.ColWidths[:idx], a.ColWidths[idx+1:]...)
	a.shiftCells(func(r, c int) (int, int, bool) {
		switch {
		case c == idx:
			return 0, 0, false
		case c > idx:
			return r, c - 1, true
		}
		return r, c, true
	})
	a.shiftCols(idx, -1)
	a.CurCol = min(a.CurCol, max(0, len(a.ColWidths)-1))
}

// shiftCells rebuilds the grid moving each cell to move(r, c); cells for
// which move reports false are dropped. Structural edits clear the undo
// history since stored blocks no longer line up.
func (a *App) shiftCells(move func(r, c int) (int, int, bool)) {
	next := make(grid.Map, len(a.Grid))
	for k, v := range a.Grid {
		if r, c, ok := move(k[0], k[1]); ok {
			next[[2]int{r, c}] = v
		}
	}
	a.Grid = next
	a.history = nil
}

// shiftRows keeps defined names and the filter on their rows after n rows
// were inserted (n > 0) or deleted (n < 0) at row at. Names left without
// rows are dropped, and so is a filter.
func (a *App) shiftRows(at, n int) {
	for name, r := range a.Names {
		a.redefine(name, r.ShiftRows(at, n))
	}
	if a.Filter != nil {
		a.Filter.ShiftRows(at, n)
		if a.Filter.Range.IsEmpty() {
			a.Filter = nil
		}
	}
}

func (a *App) shiftCols(at, n int) {
	for name, r := range a.Names {
		a.redefine(name, r.ShiftCols(at, n))
	}
	if a.Filter != nil {
		a.Filter.ShiftCols(at, n)
		if a.Filter.Range.IsEmpty() {
			a.Filter = nil
		}
	}
}

func (a *App) redefine(name string, r grid.Range) {
	if r.IsEmpty() {
		delete(a.Names, name)
		return
	}
	a.Names[name] = r
}

// ----------------------------- Viewport / Geometry -----------------------------

func (a *App) usableSize(s tcell.Screen) (int, int) {
	w, h := s.Size()
	return max(1, w-a.LeftGutter), max(1, h-a.StatusLines-1)
}

// ComputeVisible counts the columns and rows that fit from the view
// origin. Hidden rows take no space.
func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	usableW, usableH := a.usableSize(s)
	sumW := 0
	for c := a.ViewCol; c < len(a.ColWidths); c++ {
		if sumW+a.ColWidths[c] > usableW {
			break
		}
		sumW += a.ColWidths[c]
		visibleCols++
	}
	sumH := 0
	for r := a.ViewRow; r < len(a.Rows); r++ {
		if sumH+a.Rows[r].Height > usableH {
			break
		}
		sumH += a.Rows[r].Height
		visibleRows++
	}
	return max(1, visibleRows), max(1, visibleCols)
}

func (a *App) EnsureCursorVisible(s tcell.Screen) {
	if s == nil {
		return
	}
	visibleRows, visibleCols := a.ComputeVisible(s)

	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	} else if a.CurCol >= a.ViewCol+visibleCols {
		a.ViewCol = a.CurCol - visibleCols + 1
	}
	a.ViewCol = min(max(a.ViewCol, 0), max(0, len(a.ColWidths)-1))

	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	} else if a.CurRow >= a.ViewRow+visibleRows {
		a.ViewRow = a.CurRow - visibleRows + 1
	}
	a.ViewRow = min(max(a.ViewRow, 0), max(0, len(a.Rows)-1))
}
