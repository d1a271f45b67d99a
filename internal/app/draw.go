package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"grider/internal/grid"
)

const helpText = "\n i / Enter - edit \n Ctrl+Enter - save&stay \n Shift/Alt+Enter - newline \n : - command \n = - formula \n Ctrl←/Ctrl→ - col width \n Ctrl↑/Ctrl↓ - row height \n F2/F3 - add row/col \n F4/F5 - delete row/col \n PgUp/PgDn/Home/End - scroll \n u / Ctrl+Z - undo sort \n :sort C [desc] | :sort A2:D9 B,C [asc] \n :filter C a,b | :filter C * | :filter clear \n :items C | :name NAME A1:B9 \n :w file [csv|xlsx] | :o file [csv|xlsx] \n "

var (
	headerStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	activeStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	statusStyle   = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	caretStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorLightGray)
)

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()

	a.drawHeader(s, w)

	y := 1
	for r := a.ViewRow; r < len(a.Rows) && y < h-a.StatusLines; r++ {
		hh := a.Rows[r].Height
		if hh == 0 {
			continue
		}
		a.drawRow(s, r, y, w, h)
		y += hh
	}

	a.drawStatus(s, w, h)

	if a.HelpVisible {
		a.drawHelpPopup(s, helpText)
	}
	a.drawCaret(s, w, h)
	s.Show()
}

func (a *App) drawHeader(s tcell.Screen, w int) {
	x := a.LeftGutter
	for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
		wc := a.ColWidths[c]
		style := headerStyle
		if c == a.CurCol {
			style = activeStyle
			a.fill(s, x, 0, wc, 1, style)
		}
		a.printPadded(s, x, 0, grid.ColToName(c), style, wc)
		x += wc
	}
}

func (a *App) drawRow(s tcell.Screen, r, y, w, h int) {
	gutter := headerStyle
	if r == a.CurRow {
		gutter = activeStyle
		a.fill(s, 0, y, a.LeftGutter-1, 1, gutter)
	}
	a.printTextFixedWidth(s, 0, y, strconv.Itoa(r+1), gutter, a.LeftGutter-1)

	hh := a.Rows[r].Height
	x := a.LeftGutter
	for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
		wc := a.ColWidths[c]
		text := a.GetDisplayText(r, c)
		style := tcell.StyleDefault
		if r == a.CurRow && c == a.CurCol {
			style = selectedStyle
			if a.Mode == "insert" {
				text = a.InputBuf
			}
		}
		a.fill(s, x, y, wc, min(hh, h-a.StatusLines-y), style)
		for dy, line := range a.splitLines(text, hh) {
			if y+dy >= h-a.StatusLines {
				break
			}
			a.printPadded(s, x, y+dy, line, style, wc)
		}
		x += wc
	}
}

func (a *App) drawStatus(s tcell.Screen, w, h int) {
	statusY := max(0, h-a.StatusLines)
	curColW := a.DefaultWidth
	if a.CurCol < len(a.ColWidths) {
		curColW = a.ColWidths[a.CurCol]
	}
	left := fmt.Sprintf("Mode:%s  Cell:%s  cw(cur)=%d rh(cur)=%d  View:%d,%d",
		a.Mode, grid.ColRowToName(a.CurCol, a.CurRow), curColW, a.RowState(a.CurRow).Height, a.ViewRow+1, a.ViewCol+1)
	if a.Filter != nil {
		left += "  Filter:" + a.Filter.Range.String()
	}
	a.printTextFixedWidth(s, 0, statusY, left, statusStyle, w)

	line := a.Status
	if a.Mode == "insert" {
		line = "EDIT: " + a.InputBuf
	}
	a.printTextFixedWidth(s, 0, statusY+1, line, statusStyle, w)
}

// drawCaret marks the insert position inside the edited cell.
func (a *App) drawCaret(s tcell.Screen, w, h int) {
	s.HideCursor()
	if a.Mode != "insert" || a.CurCol < a.ViewCol || a.CurRow < a.ViewRow {
		return
	}
	cellX := a.LeftGutter
	for c := a.ViewCol; c < a.CurCol && c < len(a.ColWidths); c++ {
		cellX += a.ColWidths[c]
	}
	cellY := 1
	for r := a.ViewRow; r < a.CurRow && r < len(a.Rows); r++ {
		cellY += a.Rows[r].Height
	}
	if cellX >= w || cellY >= h-a.StatusLines {
		return
	}

	lines := strings.Split(a.InputBuf, "\n")
	last := len(lines) - 1
	colW := a.DefaultWidth
	if a.CurCol < len(a.ColWidths) {
		colW = a.ColWidths[a.CurCol]
	}
	rowH := max(1, a.RowState(a.CurRow).Height)

	pad := a.CellPadding
	innerW := colW - 2*pad
	if innerW < 1 {
		pad, innerW = 0, colW
	}
	cx := cellX + pad + min(runewidth.StringWidth(lines[last]), max(0, innerW-1))
	cy := cellY + min(last, rowH-1)
	if cx < w && cy < h {
		s.SetContent(cx, cy, '▏', nil, caretStyle)
	}
}

func (a *App) fill(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			s.SetContent(x+dx, y+dy, ' ', nil, style)
		}
	}
}

// printPadded prints inside a cell of width wc leaving CellPadding on
// both sides when there is room for it.
func (a *App) printPadded(s tcell.Screen, x, y int, text string, style tcell.Style, wc int) {
	if inner := wc - 2*a.CellPadding; inner > 0 {
		a.printTextFixedWidth(s, x+a.CellPadding, y, text, style, inner)
		return
	}
	a.printTextFixedWidth(s, x, y, text, style, wc)
}

// printTextFixedWidth writes str into exactly width terminal columns,
// truncating on a rune boundary and padding with spaces.
func (a *App) printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	if y < 0 {
		return
	}
	col := 0
	for _, r := range str {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > width {
			break
		}
		if x+col >= 0 {
			s.SetContent(x+col, y, r, nil, style)
		}
		col += rw
	}
	for ; col < width; col++ {
		if x+col >= 0 {
			s.SetContent(x+col, y, ' ', nil, style)
		}
	}
}

func (a *App) splitLines(text string, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	out := make([]string, maxLines)
	copy(out, strings.Split(text, "\n"))
	return out
}
