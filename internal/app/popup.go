package app

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const maxInput = 4096

var popupStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorReset)

// PopupInput shows a modal one-line editor over the sheet and blocks on
// s until Enter (returns the text and true) or Esc (returns "" and false).
func (a *App) PopupInput(s tcell.Screen, prompt, initial string) (string, bool) {
	in := lineEditor{buf: []rune(initial)}
	in.pos = len(in.buf)
	promptW := runewidth.StringWidth(prompt)

	var left, top, boxW int
	const boxH = 3
	layout := func() {
		w, h := s.Size()
		contentW := min(max(20, promptW+len(in.buf)+2), w-4)
		boxW = contentW + 4
		left = (w - boxW) / 2
		top = (h - boxH) / 2
	}
	redraw := func() {
		a.Draw(s)
		drawFrame(s, left, top, boxW, boxH, popupStyle)
		y := top + 1
		a.printTextFixedWidth(s, left+2, y, prompt, popupStyle, promptW)
		x := left + 2 + promptW + 1
		field := max(1, boxW-4-promptW)
		start := max(0, in.pos-field)
		shown := in.buf[start:min(len(in.buf), start+field)]
		a.printTextFixedWidth(s, x, y, string(shown), popupStyle, field)
		s.ShowCursor(max(left+1, x+runewidth.StringWidth(string(in.buf[start:in.pos]))), y)
		s.Show()
	}

	layout()
	redraw()
	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc:
				s.HideCursor()
				a.Draw(s)
				return "", false
			case tcell.KeyEnter:
				s.HideCursor()
				a.Draw(s)
				return string(in.buf), true
			default:
				in.key(ev)
			}
			redraw()
		case *tcell.EventResize:
			s.Sync()
			layout()
			redraw()
		case nil:
			// screen finalized
			return "", false
		}
	}
}

// lineEditor is the rune buffer and caret behind PopupInput.
type lineEditor struct {
	buf []rune
	pos int
}

func (e *lineEditor) key(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.pos > 0 {
			e.buf = append(e.buf[:e.pos-1], e.buf[e.pos:]...)
			e.pos--
		}
	case tcell.KeyDelete:
		if e.pos < len(e.buf) {
			e.buf = append(e.buf[:e.pos], e.buf[e.pos+1:]...)
		}
	case tcell.KeyLeft:
		e.pos = max(0, e.pos-1)
	case tcell.KeyRight:
		e.pos = min(len(e.buf), e.pos+1)
	case tcell.KeyHome:
		e.pos = 0
	case tcell.KeyEnd:
		e.pos = len(e.buf)
	default:
		if r := ev.Rune(); r != 0 && len(e.buf) < maxInput {
			e.buf = append(e.buf[:e.pos], append([]rune{r}, e.buf[e.pos:]...)...)
			e.pos++
		}
	}
}

func drawFrame(s tcell.Screen, left, top, w, h int, style tcell.Style) {
	for y := top; y < top+h; y++ {
		for x := left; x < left+w; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	for x := left; x < left+w; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+h-1, tcell.RuneHLine, nil, style)
	}
	for y := top; y < top+h; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+w-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+w-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+h-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+w-1, top+h-1, tcell.RuneLRCorner, nil, style)
}

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}
	const padding = 4
	maxPW, maxPH := w-6, h-6

	innerW := min(maxPW-padding*2, 50)
	if innerW < 30 {
		innerW = min(max(30, maxPW-padding*2), maxPW-padding*2)
	}
	lines := wrapText(help, innerW)
	if limit := maxPH - padding*2; limit >= 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	innerH := max(3, len(lines))

	pw, ph := innerW+padding*2, innerH+padding*2
	left, top := (w-pw)/2, (h-ph)/2
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDefault)
	drawFrame(s, left, top, pw, ph, style)

	vOffset := (ph - padding*2 - innerH) / 2
	for i, ln := range lines {
		a.printTextFixedWidth(s, left+padding, top+padding+vOffset+i, ln, style, innerW)
	}
}

// wrapText breaks s into lines of at most width columns with a one
// column left indent. Words longer than a line are chunked.
func wrapText(s string, width int) []string {
	if width <= 2 {
		return []string{s}
	}
	var out []string
	paragraphs := strings.Split(s, "\n")
	for pi, para := range paragraphs {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := " "
		for _, word := range words {
			for _, chunk := range chunkString(word, width-1) {
				switch {
				case cur == " ":
					cur += chunk
				case runewidth.StringWidth(cur)+1+runewidth.StringWidth(chunk) <= width:
					cur += " " + chunk
				default:
					out = append(out, cur)
					cur = " " + chunk
				}
			}
		}
		out = append(out, cur)
		if pi < len(paragraphs)-1 {
			out = append(out, "")
		}
	}
	return out
}

// chunkString splits s into pieces at most size columns wide.
func chunkString(s string, size int) []string {
	if runewidth.StringWidth(s) <= size {
		return []string{s}
	}
	var out []string
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > size && w > 0 {
			out = append(out, b.String())
			b.Reset()
			w = 0
		}
		b.WriteRune(r)
		w += rw
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
