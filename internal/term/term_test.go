package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

func newSim(t *testing.T, onQuit func()) (*Sim, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 8)
	s := NewWithScreen(screen, onQuit)
	t.Cleanup(func() { s.Close() })
	return s, screen
}

func TestSimDrawsStrip(t *testing.T) {
	s, screen := newSim(t, nil)
	require.NoError(t, s.Write(render.Frame{render.Red, render.BlueViolet}))

	mainc, _, style, _ := screen.GetContent(1, stripRow)
	assert.Equal(t, '█', mainc)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0x8A, 0x2B, 0xE2), fg)
}

func TestSimClipsLongFrames(t *testing.T) {
	s, _ := newSim(t, nil)
	assert.NoError(t, s.Write(render.NewFrame(200)))
}

func TestSimShowsName(t *testing.T) {
	s, screen := newSim(t, nil)
	require.NoError(t, s.ShowEffectName("breathing"))
	require.NoError(t, s.ShowEffectName("wave"))

	var got []rune
	for x := 0; x < len("breathing"); x++ {
		r, _, _, _ := screen.GetContent(x, nameRow)
		got = append(got, r)
	}
	assert.Equal(t, "wave     ", string(got), "shorter names clear the old text")
}

func TestSimKeysLatchPresses(t *testing.T) {
	quits := 0
	s, _ := newSim(t, func() { quits++ })

	assert.False(t, s.IsPressed())
	s.key(tcell.KeyRune, ' ')
	s.key(tcell.KeyEnter, 0)
	s.key(tcell.KeyRune, 'x')
	assert.True(t, s.IsPressed())
	assert.True(t, s.IsPressed())
	assert.False(t, s.IsPressed(), "each press is reported once")

	s.key(tcell.KeyRune, 'q')
	s.key(tcell.KeyEscape, 0)
	s.key(tcell.KeyCtrlC, 0)
	assert.Equal(t, 3, quits)
}
