package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"grider/internal/calc"
	"grider/internal/filter"
	"grider/internal/grid"
	"grider/internal/sorting"
	"grider/internal/storage"
)

var (
	ErrUsage       = errors.New("usage")
	ErrUnknown     = errors.New("unknown command")
	ErrNothingToDo = errors.New("nothing to undo")

	// ErrFormulaInRange means a formula inside the range reads cells of
	// the range. Its references are not rewritten when rows move.
	ErrFormulaInRange = fmt.Errorf("%w: formula reads the sorted range", sorting.ErrInvalidRangeShape)
)

// ExecuteCommand runs a ':' command line and reports failures on the
// status line.
func (a *App) ExecuteCommand(cmd string) {
	if err := a.Run(cmd); err != nil {
		a.Status = "error: " + err.Error()
	}
}

// Run executes one command line.
func (a *App) Run(cmd string) error {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return nil
	}
	args := parts[1:]
	switch parts[0] {
	case "q", "quit":
		a.Quit = true
	case "cw":
		v, err := intArg(args, 4)
		if err != nil {
			return err
		}
		for i := range a.ColWidths {
			a.ColWidths[i] = v
		}
	case "rh":
		v, err := intArg(args, 1)
		if err != nil {
			return err
		}
		for i, st := range a.Rows {
			if st.Hidden() {
				a.Rows[i].LastHeight = v
			} else {
				a.Rows[i].Height = v
			}
		}
	case "w":
		return a.save(args)
	case "o":
		return a.open(args)
	case "sort":
		return a.sortCommand(args)
	case "filter":
		return a.filterCommand(args)
	case "show":
		a.ClearFilter()
	case "items":
		return a.itemsCommand(args)
	case "name":
		if len(args) != 2 {
			return fmt.Errorf("%w: name NAME RANGE", ErrUsage)
		}
		rng, err := grid.ParseRange(args[1])
		if err != nil {
			return err
		}
		a.Names.Define(args[0], rng)
		a.Status = fmt.Sprintf("%s = %s", strings.ToUpper(args[0]), rng)
	case "u", "undo":
		return a.Undo()
	default:
		return fmt.Errorf("%w: %s", ErrUnknown, parts[0])
	}
	return nil
}

func intArg(args []string, least int) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%w: expected a number", ErrUsage)
	}
	v, err := strconv.Atoi(args[0])
	if err != nil || v < least {
		return 0, fmt.Errorf("%w: expected a number >= %d", ErrUsage, least)
	}
	return v, nil
}

// ----------------------------- Sorting -----------------------------

// sortCommand handles "sort C [order]" and "sort RANGE C,D [order]".
func (a *App) sortCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: sort COL [asc|desc] | sort RANGE COL,COL [asc|desc]", ErrUsage)
	}
	order := sorting.Ascending
	if n := len(args); n > 1 {
		if o, err := sorting.ParseOrder(args[n-1]); err == nil {
			order = o
			args = args[:n-1]
		}
	}
	switch len(args) {
	case 1:
		return a.SortColumn(args[0], order)
	case 2:
		return a.SortRange(args[0], strings.Split(args[1], ","), order)
	}
	return fmt.Errorf("%w: too many arguments", ErrUsage)
}

// SortColumn sorts the content rows below the title rows by one column.
func (a *App) SortColumn(name string, order sorting.Order) error {
	col, ok := grid.NameToCol(name)
	if !ok {
		return &grid.AddressError{Address: name}
	}
	rng := a.contentRange()
	if rng.IsEmpty() {
		a.Status = "nothing to sort"
		return nil
	}
	if col > rng.EndCol() {
		rng.Cols = col - rng.Col + 1
	}
	return a.Sort(rng, []int{col}, order)
}

// SortRange sorts a range given as an address or a defined name by the
// named key columns.
func (a *App) SortRange(addr string, keyNames []string, order sorting.Order) error {
	rng, err := a.Names.Resolve(addr)
	if err != nil {
		return err
	}
	keys := make([]int, 0, len(keyNames))
	for _, k := range keyNames {
		if k == "" {
			continue
		}
		col, ok := grid.NameToCol(k)
		if !ok {
			return &grid.AddressError{Address: k}
		}
		keys = append(keys, col)
	}
	return a.Sort(rng, keys, order)
}

// Sort reorders the rows of rng, records the change for undo, follows
// the cursor row and notifies listeners.
func (a *App) Sort(rng grid.Range, keys []int, order sorting.Order) error {
	if err := a.checkFormulaRefs(rng); err != nil {
		return err
	}
	res, err := sorting.Sort(a, rng, keys, order, sorting.WithComparer(a.Comparer))
	if err != nil {
		return err
	}
	act := res.Action()
	if act == nil {
		a.Status = "already sorted"
		return nil
	}
	act.Do(a, a)
	step := sortStep{rng: rng, act: act, ev: res.Event()}
	a.history = append(a.history, step)
	a.rowsMoved(step.rng, step.ev)
	a.Status = fmt.Sprintf("sorted %s %s", rng, order)
	return nil
}

// checkFormulaRefs rejects rng when one of its formulas reads a cell of
// rng.
func (a *App) checkFormulaRefs(rng grid.Range) error {
	for k, c := range a.Grid {
		if !rng.Contains(k[0], k[1]) || !strings.HasPrefix(c.Text, "=") {
			continue
		}
		for _, ref := range calc.Refs(c.Text[1:]) {
			if ref.Intersects(rng) {
				return fmt.Errorf("%w: %s", ErrFormulaInRange, grid.ColRowToName(k[1], k[0]))
			}
		}
	}
	return nil
}

// Undo restores the block overwritten by the latest sort and moves the
// cursor and the filtered rows back with it.
func (a *App) Undo() error {
	if len(a.history) == 0 {
		return ErrNothingToDo
	}
	step := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]
	step.act.Undo(a)
	a.rowsMoved(step.rng, step.ev.Inverse())
	a.Status = "undone " + step.act.Range.String()
	return nil
}

// rowsMoved runs after the rows of rng were reordered by ev.
func (a *App) rowsMoved(rng grid.Range, ev sorting.RowsSorted) {
	if rng.ContainsCol(a.CurCol) {
		a.CurRow = ev.NewRow(a.CurRow)
	}
	for _, fn := range a.sortListeners {
		fn(ev)
	}
	if a.Filter != nil {
		a.applyFilter()
	}
}

// ----------------------------- Filtering -----------------------------

// filterCommand handles "filter C a,b,c", "filter C *" and "filter clear".
func (a *App) filterCommand(args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		a.ClearFilter()
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: filter COL ITEM,ITEM | filter COL * | filter clear", ErrUsage)
	}
	col, ok := grid.NameToCol(args[0])
	if !ok {
		return &grid.AddressError{Address: args[0]}
	}
	list := strings.Join(args[1:], " ")
	if list == "*" {
		return a.SetFilter(col)
	}
	return a.SetFilter(col, strings.Split(list, ",")...)
}

// SetFilter sets the condition of col, creating the filter over the
// content rows when there is none, and applies it. No items means select
// all.
func (a *App) SetFilter(col int, items ...string) error {
	if a.Filter == nil {
		rng := a.contentRange()
		if rng.IsEmpty() {
			return fmt.Errorf("%w: no rows below the title rows", filter.ErrColumnOutOfRange)
		}
		a.Filter = filter.NewColumnFilter(rng)
	}
	cond, err := a.Filter.Column(col)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		cond.SelectAll()
	} else {
		cond.Select(items...)
	}
	a.applyFilter()
	return nil
}

func (a *App) applyFilter() {
	ev := a.Filter.Apply(a, a)
	a.notifyFiltered(ev)
	if a.RowState(a.CurRow).Hidden() {
		a.CurRow = a.nextVisible(a.CurRow, 1)
		a.EnsureRowExists(a.CurRow)
	}
}

// ClearFilter drops the filter and shows every hidden row.
func (a *App) ClearFilter() {
	a.Filter = nil
	if len(a.Rows) == 0 {
		return
	}
	ev := filter.ShowAll(a, grid.NewRange(0, 0, len(a.Rows), max(1, len(a.ColWidths))))
	a.notifyFiltered(ev)
}

func (a *App) notifyFiltered(ev filter.RowsFiltered) {
	for _, fn := range a.filterListener {
		fn(ev)
	}
}

func (a *App) itemsCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: items COL", ErrUsage)
	}
	col, ok := grid.NameToCol(args[0])
	if !ok {
		return &grid.AddressError{Address: args[0]}
	}
	items, err := a.Items(col)
	if err != nil {
		return err
	}
	for i, it := range items {
		if it == "" {
			items[i] = "(blank)"
		}
	}
	a.Status = strings.Join(items, ", ")
	return nil
}

// Items lists the distinct texts of col over the filter range, or over
// the content rows when no filter is set.
func (a *App) Items(col int) ([]string, error) {
	f := a.Filter
	if f == nil {
		f = filter.NewColumnFilter(a.contentRange())
	}
	return f.DistinctItems(a, col)
}

// ----------------------------- Storage -----------------------------

// fileArgs resolves "file [csv|xlsx|grider]"; an explicit format adds
// its extension when missing.
func fileArgs(args []string) (string, storage.Format, error) {
	if len(args) == 0 {
		return "", 0, fmt.Errorf("%w: FILE [csv|xlsx]", ErrUsage)
	}
	filename := args[0]
	format := storage.FormatOf(filename)
	if len(args) >= 2 {
		ext := "." + strings.ToLower(args[1])
		switch ext {
		case ".csv", ".xlsx", ".grider":
		default:
			return "", 0, fmt.Errorf("%w: unknown format %s", ErrUsage, args[1])
		}
		if !strings.EqualFold(filepath.Ext(filename), ext) {
			filename += ext
		}
		format = storage.FormatOf(filename)
	}
	return filename, format, nil
}

func (a *App) save(args []string) error {
	filename, format, err := fileArgs(args)
	if err != nil {
		return err
	}
	if err := storage.Save(a.Document(), filename, format); err != nil {
		fmt.Fprintf(os.Stderr, "error saving %s: %v\n", filename, err)
		return err
	}
	a.Status = "saved " + filename
	return nil
}

func (a *App) open(args []string) error {
	filename, format, err := fileArgs(args)
	if err != nil {
		return err
	}
	if err := a.Open(filename, format); err != nil {
		fmt.Fprintf(os.Stderr, "error loading %s: %v\n", filename, err)
		return err
	}
	a.Status = "opened " + filename
	return nil
}

// Document snapshots the sheet for saving.
func (a *App) Document() *storage.Document {
	return &storage.Document{
		Cells:     a.Grid,
		ColWidths: a.ColWidths,
		Rows:      a.Rows,
		Names:     a.Names,
		Filter:    a.Filter,
	}
}

// Open replaces the sheet with the file's content.
func (a *App) Open(filename string, format storage.Format) error {
	doc, err := storage.Load(filename, format)
	if err != nil {
		return err
	}
	a.LoadDocument(doc)
	return nil
}

// LoadDocument replaces the sheet with doc and resets the view.
func (a *App) LoadDocument(doc *storage.Document) {
	a.Grid = doc.Cells
	a.ColWidths = doc.ColWidths
	a.Rows = doc.Rows
	a.Names = doc.Names
	if a.Names == nil {
		a.Names = grid.Names{}
	}
	a.Filter = doc.Filter
	a.history = nil

	maxR, maxC := a.Grid.Bounds()
	a.EnsureColExists(max(maxC, 7))
	a.EnsureRowExists(max(maxR, 7))
	a.CurRow, a.CurCol, a.ViewRow, a.ViewCol = 0, 0, 0, 0
	if a.RowState(0).Hidden() {
		a.CurRow = a.nextVisible(0, 1)
	}
}
