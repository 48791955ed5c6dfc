package wave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func lit(f render.Frame) []int {
	var out []int
	for i, c := range f {
		if c != render.Black {
			out = append(out, i)
		}
	}
	return out
}

func TestRenderSegmentInclusive(t *testing.T) {
	w := New(render.BlueViolet, 60, 10)
	w.Offset = 5
	f := render.NewFrame(60)
	w.Render(f)

	got := lit(f)
	require.Len(t, got, 11)
	assert.Equal(t, 5, got[0])
	assert.Equal(t, 15, got[10])
	assert.Equal(t, render.BlueViolet, f[15])

	again := render.NewFrame(60)
	w.Render(again)
	assert.Equal(t, f, again)
}

func TestTurnsOnNextAdvanceAfterLastPixel(t *testing.T) {
	w := New(render.BlueViolet, 60, 10)
	w.Offset = 49 // offset+width == N-1
	w.Up = true
	w.Advance(epoch)
	require.Equal(t, 49, w.Offset)

	w.Advance(epoch.Add(Interval))
	assert.Equal(t, 50, w.Offset, "boundary check uses the offset before the move")
	assert.True(t, w.Up)

	w.Advance(epoch.Add(2 * Interval))
	assert.False(t, w.Up, "offset+width >= N flips down")
	assert.Equal(t, 49, w.Offset)
}

func TestTurnsUpAtZero(t *testing.T) {
	w := New(render.BlueViolet, 60, 10)
	w.Offset = 1
	w.Up = false
	w.Advance(epoch)

	w.Advance(epoch.Add(Interval))
	assert.Equal(t, 0, w.Offset)
	assert.False(t, w.Up)

	w.Advance(epoch.Add(2 * Interval))
	assert.True(t, w.Up)
	assert.Equal(t, 1, w.Offset)
}

func TestBounceEndToEnd(t *testing.T) {
	const n, width = 60, 10
	w := New(render.BlueViolet, n, width)
	require.Equal(t, 0, w.Offset)
	require.True(t, w.Up)

	f := render.NewFrame(n)
	w.Advance(epoch)
	w.Render(f)
	require.Equal(t, 0, w.Offset, "first frame starts at offset 0")
	require.Equal(t, 0, lit(f)[0])

	now := epoch.Add(Interval)
	var offsets, lastPixelLit []int
	for step := 0; step < 2*(n-width); step++ {
		w.Advance(now)
		now = now.Add(Interval)
		w.Render(f)
		offsets = append(offsets, w.Offset)
		if f[n-1] != render.Black {
			lastPixelLit = append(lastPixelLit, w.Offset)
		}
	}

	// rises 1..50, turns, falls back to 0
	peak := 0
	for i, o := range offsets {
		if o == n-width {
			peak++
			assert.Equal(t, n-width-1, offsets[i+1], "reverses right after the far end")
		}
	}
	assert.Equal(t, 1, peak, "far end held for exactly one step")
	// the lit range is inclusive, so the last pixel is already lit one step
	// before the far end and stays lit one step after it
	assert.Equal(t, []int{n - width - 1, n - width, n - width - 1}, lastPixelLit)
	assert.Equal(t, 0, offsets[len(offsets)-1])
	assert.False(t, w.Up)
}

func TestGatedAtInterval(t *testing.T) {
	w := New(render.BlueViolet, 60, 10)
	w.Advance(epoch)
	w.Advance(epoch.Add(49 * time.Millisecond))
	assert.Equal(t, 0, w.Offset)
	w.Advance(epoch.Add(50 * time.Millisecond))
	assert.Equal(t, 1, w.Offset)
}

func TestOffsetStaysOnStrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 120).Draw(t, "pixels")
		width := rapid.IntRange(1, 20).Draw(t, "width")
		steps := rapid.IntRange(0, 400).Draw(t, "steps")

		w := New(render.BlueViolet, n, width)
		now := epoch
		for i := 0; i < steps; i++ {
			w.Advance(now)
			now = now.Add(Interval)
			if w.Offset < 0 || w.Offset > max(0, n-width) {
				t.Fatalf("step %d: offset %d outside [0,%d]", i, w.Offset, max(0, n-width))
			}
		}
		f := render.NewFrame(n)
		w.Render(f)
		if len(f) != n {
			t.Fatalf("frame resized to %d", len(f))
		}
	})
}
