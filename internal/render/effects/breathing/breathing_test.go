package breathing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTriangleWave(t *testing.T) {
	b := New(render.Orange)
	b.Advance(epoch)
	require.Equal(t, 0, b.Fade, "first advance only starts the period")
	now := epoch.Add(Interval)

	prev := b.Fade
	flips := 0
	peaks, troughs := 0, 0
	for step := 0; step < 3*2*MaxFade; step++ {
		wasUp := b.Up
		b.Advance(now)
		now = now.Add(Interval)

		require.GreaterOrEqual(t, b.Fade, 0)
		require.LessOrEqual(t, b.Fade, MaxFade)
		if wasUp {
			require.Equal(t, prev+1, b.Fade, "step %d rising", step)
		} else {
			require.Equal(t, prev-1, b.Fade, "step %d falling", step)
		}
		if b.Up != wasUp {
			flips++
			if wasUp {
				assert.Equal(t, MaxFade, b.Fade)
				peaks++
			} else {
				assert.Equal(t, 0, b.Fade)
				troughs++
			}
		}
		prev = b.Fade
	}
	assert.Equal(t, 3, peaks)
	assert.Equal(t, 3, troughs)
	assert.Equal(t, 6, flips)
}

func TestAdvanceGated(t *testing.T) {
	b := New(render.Orange)
	b.Advance(epoch)
	b.Advance(epoch.Add(9 * time.Millisecond))
	assert.Equal(t, 0, b.Fade)
	b.Advance(epoch.Add(10 * time.Millisecond))
	assert.Equal(t, 1, b.Fade)
	b.Advance(epoch.Add(20 * time.Millisecond))
	assert.Equal(t, 2, b.Fade)
}

func TestRenderDarkens(t *testing.T) {
	b := New(render.Orange)
	f := render.NewFrame(4)

	b.Render(f)
	assert.Equal(t, render.Orange, f[0], "fade 0 is full brightness")

	b.Fade = MaxFade
	b.Render(f)
	assert.Less(t, f[0].R, uint8(20))
	assert.NotEqual(t, render.Black, f[0], "deepest fade stays lit")

	again := render.NewFrame(4)
	b.Render(again)
	assert.Equal(t, f, again)
}
