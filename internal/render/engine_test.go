package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/coreman2200/funtimes-striplight/internal/selector"
)

// fakeEffect paints a constant color and counts advances.
type fakeEffect struct {
	name     string
	c        Color
	advances int
	lastNow  time.Time
}

func (f *fakeEffect) Name() string { return f.name }
func (f *fakeEffect) Advance(now time.Time) {
	f.advances++
	f.lastNow = now
}
func (f *fakeEffect) Render(dst Frame) { dst.Fill(f.c) }

// fakeSink captures the last frame written.
type fakeSink struct {
	mu   sync.Mutex
	last Frame
	n    int
	err  error
}

func (s *fakeSink) Write(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = f.Clone()
	s.n++
	return s.err
}

func (s *fakeSink) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func fakes() []Effect {
	return []Effect{
		&fakeEffect{name: "rainbow", c: Red},
		&fakeEffect{name: "cycle", c: Green},
		&fakeEffect{name: "breathing", c: Blue},
		&fakeEffect{name: "wave", c: Orange},
	}
}

func TestNewEngineValidates(t *testing.T) {
	sel := selector.New(selector.Rainbow)
	_, err := NewEngine(0, sel, nil, nil, fakes()...)
	assert.Error(t, err)
	_, err = NewEngine(10, nil, nil, nil, fakes()...)
	assert.Error(t, err)
	_, err = NewEngine(10, sel, nil, nil, fakes()[:3]...)
	assert.Error(t, err)

	e, err := NewEngine(10, sel, nil, nil, fakes()...)
	require.NoError(t, err)
	assert.Len(t, e.Frame, 10)
	assert.Equal(t, SystemClock, e.Clock)
}

func TestRenderOnceDispatchesSelected(t *testing.T) {
	sel := selector.New(selector.Cycle)
	sink := &fakeSink{}
	clk := fixedClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	fx := fakes()
	e, err := NewEngine(5, sel, sink, clk, fx...)
	require.NoError(t, err)

	e.RenderOnce()
	assert.Equal(t, Green, sink.last[4])
	assert.Equal(t, 1, fx[selector.Cycle].(*fakeEffect).advances)
	assert.Equal(t, clk.t, fx[selector.Cycle].(*fakeEffect).lastNow)
	assert.Equal(t, 0, fx[selector.Rainbow].(*fakeEffect).advances)

	sel.Next()
	e.RenderOnce()
	assert.Equal(t, Blue, sink.last[0])
	assert.Equal(t, uint64(2), e.Frames())
	assert.Len(t, e.Frame, 5)
}

func TestSinkErrorsAreDropped(t *testing.T) {
	sink := &fakeSink{err: errors.New("spi busy")}
	e, err := NewEngine(3, selector.New(selector.Wave), sink, nil, fakes()...)
	require.NoError(t, err)

	e.RenderOnce()
	e.RenderOnce()
	assert.Equal(t, 2, sink.writes())
	assert.Equal(t, uint64(2), e.Dropped())
	assert.Equal(t, uint64(2), e.Frames())
}

type slowSink struct{ d time.Duration }

func (s slowSink) Write(Frame) error {
	time.Sleep(s.d)
	return nil
}

func TestLastFrameTiming(t *testing.T) {
	e, err := NewEngine(3, selector.New(selector.Rainbow), slowSink{d: 5 * time.Millisecond}, nil, fakes()...)
	require.NoError(t, err)

	r, total := e.LastFrame()
	assert.Zero(t, r)
	assert.Zero(t, total)

	e.RenderOnce()
	r, total = e.LastFrame()
	assert.GreaterOrEqual(t, total, 5*time.Millisecond, "total includes the sink write")
	assert.LessOrEqual(t, r, total)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &fakeSink{}
	e, err := NewEngine(3, selector.New(selector.Rainbow), sink, nil, fakes()...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sink.writes() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("render loop did not stop")
	}
}

func TestGateAbsoluteReset(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewGate(20 * time.Millisecond)
	assert.False(t, g.Ready(t0), "first call only starts the period")
	assert.Equal(t, t0, g.Last())
	assert.False(t, g.Ready(t0.Add(19*time.Millisecond)))

	// a 100ms stall fires once, then waits a full interval from the late time
	late := t0.Add(120 * time.Millisecond)
	assert.True(t, g.Ready(late))
	assert.Equal(t, late, g.Last())
	assert.False(t, g.Ready(late.Add(time.Millisecond)))
	assert.True(t, g.Ready(late.Add(20*time.Millisecond)))
}

func TestColorScale(t *testing.T) {
	c := Color{200, 100, 255}
	assert.Equal(t, c, c.Scale(255))
	assert.Equal(t, Black, c.Scale(0).FadeToBlackBy(0).Scale(0))
	assert.Equal(t, c, c.FadeToBlackBy(0))
	assert.Equal(t, Color{100, 50, 127}, c.Scale(127))
}
