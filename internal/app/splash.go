package app

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

const splashHint = "Press any key to enter the application"

var splashTitle = []struct {
	char  rune
	color tcell.Color
}{
	{'G', tcell.ColorWhite},
	{'R', tcell.ColorWhite},
	{'I', tcell.ColorYellow},
	{':', tcell.ColorYellow},
	{'D', tcell.ColorYellow},
	{'E', tcell.ColorWhite},
	{'R', tcell.ColorWhite},
}

// Splash reveals the title one letter per step and waits for a key.
func Splash(s tcell.Screen, step time.Duration) {
	hint := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for reveal := 1; reveal <= len(splashTitle); reveal++ {
		s.Clear()
		w, h := s.Size()
		x, y := (w-len(splashTitle))/2, h/2
		for i, l := range splashTitle[:reveal] {
			s.SetContent(x+i, y, l.char, nil, tcell.StyleDefault.Foreground(l.color).Bold(true))
		}
		hx := (w - len(splashHint)) / 2
		for i, ch := range splashHint {
			s.SetContent(hx+i, y+2, ch, nil, hint)
		}
		s.Show()
		time.Sleep(step)
	}

	for {
		switch s.PollEvent().(type) {
		case *tcell.EventKey, nil:
			return
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
