package render

import "time"

// Gate rate-limits a state step to at most once per Interval.
//
// When it fires, the last-fired time is set to now rather than advanced by
// Interval, so a stall produces one late step instead of a burst of catch-up
// steps. The first call only starts the period, so an effect shows its
// initial state for one full Interval.
type Gate struct {
	Interval time.Duration
	last     time.Time
	started  bool
}

func NewGate(interval time.Duration) Gate { return Gate{Interval: interval} }

// Ready reports whether the step should run at now, and if so records now as
// the last-fired time.
func (g *Gate) Ready(now time.Time) bool {
	if !g.started {
		g.last = now
		g.started = true
		return false
	}
	if now.Sub(g.last) < g.Interval {
		return false
	}
	g.last = now
	return true
}

// Last returns when the gate last fired, or first started its period.
func (g *Gate) Last() time.Time { return g.last }
