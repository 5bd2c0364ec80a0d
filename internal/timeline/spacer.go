package timeline

import (
	"github.com/rs/zerolog"
)

// group is a run of events that must be placed together: its members are
// redistributed on an even grid across [lo, hi]. Groups are built so that
// consecutive groups always sit at least the minimum gap apart, which
// keeps the minimum-spacing invariant global, not just intra-cluster.
type group struct {
	start, end  int     // events[start:end]
	first, last float64 // original scheduled times at the edges
	lo, hi      float64 // placement bounds
}

// bounds centres a window of the given size on the group and clips it to
// [0, duration], shifting rather than shrinking where the axis allows so a
// burst at t=0 still gets the full window. Single events stay put.
func (g *group) bounds(window, duration float64) {
	if g.end-g.start == 1 {
		g.lo, g.hi = g.first, g.last
		return
	}
	lo := g.first - window/2
	hi := g.last + window/2
	if lo < 0 {
		hi -= lo
		lo = 0
	}
	if hi > duration {
		lo -= hi - duration
		hi = duration
		if lo < 0 {
			lo = 0
		}
	}
	g.lo, g.hi = lo, hi
}

// Space redistributes time-clustered events so consecutive output events
// are separated by at least MinEventSpacing. SpreadNone returns the input
// untouched: chronological fidelity is absolute and simultaneous events
// stay simultaneous. The input must already be sorted ascending by At.
//
// Gentle disturbs events across half the configured window; aggressive
// uses the whole window. The minimum gap is the same in both modes.
func Space(events []Event, cfg Config, log zerolog.Logger) ([]Event, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.SpreadMode == SpreadNone || len(events) < 2 {
		return events, nil
	}

	window := cfg.MaxSpacingWindow
	if cfg.SpreadMode == SpreadGentle {
		window /= 2
	}

	out := make([]Event, len(events))
	copy(out, events)
	for _, g := range groupEvents(out, window, cfg) {
		g.place(out, cfg.MinEventSpacing, log)
	}
	return out, nil
}

// groupEvents merges events into placement groups, left to right. A new
// event starts as its own group; it swallows the previous group whenever
// the two could not be placed the minimum gap apart, or their original
// times fall under the simultaneity threshold. Merging widens the bounds,
// so the merge re-checks against the next group down the stack. The
// resulting groups have disjoint, ordered ranges: output needs no re-sort
// and relative order within a group is the input order.
func groupEvents(events []Event, window float64, cfg Config) []group {
	var stack []group
	for i := range events {
		g := group{start: i, end: i + 1, first: events[i].At, last: events[i].At}
		g.bounds(window, cfg.Duration)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			if g.lo-p.hi >= cfg.MinEventSpacing && g.first-p.last >= cfg.SimultaneousThreshold {
				break
			}
			g = group{start: p.start, end: g.end, first: p.first, last: g.last}
			g.bounds(window, cfg.Duration)
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, g)
	}
	return stack
}

// place rewrites the At of every member onto the even grid across the
// group's bounds. When the bounds cannot hold the members at the minimum
// gap the grid compresses evenly instead of dropping events or leaving the
// bounds, and the degradation is reported.
func (g group) place(events []Event, minGap float64, log zerolog.Logger) {
	n := g.end - g.start
	if n == 1 {
		return
	}
	step := (g.hi - g.lo) / float64(n-1)
	if step < minGap {
		log.Warn().
			Int("events", n).
			Float64("have", g.hi-g.lo).
			Float64("need", minGap*float64(n-1)).
			Msg("spacing window saturated; compressing cluster evenly")
	}
	for i := 0; i < n; i++ {
		events[g.start+i].At = g.lo + step*float64(i)
	}
}
