// Package term is a terminal stand-in for the strip, the status display and
// the push button.
package term

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

const (
	stripRow = 1
	nameRow  = 3
	helpRow  = 5
	help     = "space/enter: next effect   q/esc: quit"
)

// Sim draws frames as a row of blocks and treats space or enter as a button
// press. Each press is reported once by IsPressed.
type Sim struct {
	mu      sync.Mutex
	screen  tcell.Screen
	pending int
	name    string
	quit    func()
}

// New initialises a terminal screen. onQuit runs when q, Esc or Ctrl-C is
// pressed.
func New(onQuit func()) (*Sim, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return NewWithScreen(s, onQuit), nil
}

// NewWithScreen wraps an initialised screen.
func NewWithScreen(s tcell.Screen, onQuit func()) *Sim {
	if onQuit == nil {
		onQuit = func() {}
	}
	t := &Sim{screen: s, quit: onQuit}
	t.mu.Lock()
	t.text(helpRow, help, tcell.StyleDefault.Dim(true))
	t.mu.Unlock()
	return t
}

func (t *Sim) Write(f render.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, _ := t.screen.Size()
	for i, c := range f {
		if i >= w {
			break
		}
		st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		t.screen.SetContent(i, stripRow, '█', nil, st)
	}
	t.screen.Show()
	return nil
}

func (t *Sim) ShowEffectName(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.name = name
	t.text(nameRow, name, tcell.StyleDefault.Bold(true))
	t.screen.Show()
	return nil
}

// IsPressed consumes one queued key press.
func (t *Sim) IsPressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == 0 {
		return false
	}
	t.pending--
	return true
}

// Run pumps terminal events until ctx is done.
func (t *Sim) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
	for ctx.Err() == nil {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		t.handle(ev)
	}
}

func (t *Sim) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		t.key(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		t.mu.Lock()
		t.screen.Sync()
		t.mu.Unlock()
	}
}

func (t *Sim) key(k tcell.Key, r rune) {
	switch {
	case k == tcell.KeyEscape, k == tcell.KeyCtrlC, k == tcell.KeyRune && r == 'q':
		t.quit()
	case k == tcell.KeyEnter, k == tcell.KeyRune && r == ' ':
		t.mu.Lock()
		t.pending++
		t.mu.Unlock()
	}
}

// Close restores the terminal.
func (t *Sim) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
	return nil
}

// text must be called with mu held.
func (t *Sim) text(row int, s string, st tcell.Style) {
	w, _ := t.screen.Size()
	x := 0
	for _, r := range s {
		if x >= w {
			break
		}
		t.screen.SetContent(x, row, r, nil, st)
		x++
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, row, ' ', nil, tcell.StyleDefault)
	}
}
