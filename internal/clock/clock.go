package clock

import (
	"fmt"
	"sort"

	"github.com/sonigraph/sonigraph-go/internal/timeline"
)

// State is the playback phase: Stopped -> Playing <-> Paused, with Ended
// reached when a non-looping pass crosses the duration.
type State int

const (
	Stopped State = iota
	Playing
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// NotificationKind tags the clock's outbound events. A single tagged union
// rather than per-callback registration keeps delivery order explicit:
// within one Advance, node appearances arrive first (ascending scheduled
// time), then the visibility snapshot, then the time update.
type NotificationKind int

const (
	KindNodeAppeared NotificationKind = iota
	KindVisibility
	KindTime
	KindEnded
)

type Notification struct {
	Kind     NotificationKind
	Time     float64
	Progress float64
	Node     *timeline.Node // KindNodeAppeared
	Visible  []string       // KindVisibility; sorted node IDs
	Looped   bool           // KindEnded; true when playback wraps to 0
}

// StateError reports an operation made in the wrong lifecycle phase, such
// as playing before events exist or touching a destroyed clock. It is
// fatal to the call, not to the clock (unless destroyed).
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("clock: %s: %s", e.Op, e.Reason)
}

// Clock is the single authoritative virtual-time cursor. It owns the event
// list exclusively and advances only when the external tick source calls
// Advance; it never waits or spawns anything itself.
type Clock struct {
	events    []timeline.Event
	duration  float64
	speed     float64
	loop      bool
	state     State
	current   float64
	next      int // index of the first unfired event
	visible   map[string]struct{}
	notify    func(Notification)
	destroyed bool
}

// New validates the configuration up front so playback can never trip over
// it mid-tick. A nil event list is allowed and means "not initialized":
// Play and Seek refuse until events exist.
func New(events []timeline.Event, duration float64, notify func(Notification)) (*Clock, error) {
	if duration <= 0 {
		return nil, &timeline.ConfigError{Field: "duration", Reason: "must be positive"}
	}
	for i := 1; i < len(events); i++ {
		if events[i].At < events[i-1].At {
			return nil, &timeline.ConfigError{Field: "events", Reason: "not sorted by scheduled time"}
		}
	}
	for i := range events {
		if events[i].At < 0 || events[i].At > duration {
			return nil, &timeline.ConfigError{Field: "events", Reason: fmt.Sprintf("event %d outside [0,duration]", i)}
		}
	}
	return &Clock{
		events:   events,
		duration: duration,
		speed:    1,
		visible:  make(map[string]struct{}),
		notify:   notify,
	}, nil
}

func (c *Clock) emit(n Notification) {
	if c.notify != nil {
		c.notify(n)
	}
}

func (c *Clock) guard(op string) error {
	if c.destroyed {
		return &StateError{Op: op, Reason: "clock destroyed"}
	}
	return nil
}

func (c *Clock) Play() error {
	if err := c.guard("play"); err != nil {
		return err
	}
	if c.events == nil {
		return &StateError{Op: "play", Reason: "event list not initialized"}
	}
	if c.state == Ended {
		// Restarting a finished pass begins from zero.
		c.rewind()
	}
	c.state = Playing
	return nil
}

func (c *Clock) Pause() error {
	if err := c.guard("pause"); err != nil {
		return err
	}
	if c.state == Playing {
		c.state = Paused
	}
	return nil
}

// Stop resets the cursor and all fired bookkeeping. Safe to call in any
// state, any number of times.
func (c *Clock) Stop() error {
	if err := c.guard("stop"); err != nil {
		return err
	}
	c.state = Stopped
	c.rewind()
	c.emit(Notification{Kind: KindVisibility, Visible: nil, Time: 0})
	c.emit(Notification{Kind: KindTime, Time: 0, Progress: 0})
	return nil
}

func (c *Clock) rewind() {
	c.current = 0
	c.next = 0
	c.visible = make(map[string]struct{})
}

// Seek jumps the cursor without replaying the past: events at or before t
// become visible but are marked fired so no audio triggers for time
// already crossed. Seeking to 0 is a full rewind instead, clearing fired
// bookkeeping like Stop and loop wraparound do, so the pass replays whole.
// Out-of-range targets clamp, they never error.
func (c *Clock) Seek(t float64) error {
	if err := c.guard("seek"); err != nil {
		return err
	}
	if c.events == nil {
		return &StateError{Op: "seek", Reason: "event list not initialized"}
	}
	if t < 0 {
		t = 0
	}
	if t > c.duration {
		t = c.duration
	}
	if t == 0 {
		c.rewind()
		c.emit(Notification{Kind: KindVisibility, Visible: nil, Time: 0})
		c.emit(Notification{Kind: KindTime, Time: 0, Progress: 0})
		return nil
	}
	c.current = t
	c.visible = make(map[string]struct{})
	c.next = 0
	for c.next < len(c.events) && c.events[c.next].At <= t {
		c.visible[c.events[c.next].Node.ID] = struct{}{}
		c.next++
	}
	c.emit(Notification{Kind: KindVisibility, Visible: c.visibleIDs(), Time: t})
	c.emit(Notification{Kind: KindTime, Time: t, Progress: t / c.duration})
	return nil
}

func (c *Clock) SetSpeed(s float64) error {
	if err := c.guard("setSpeed"); err != nil {
		return err
	}
	if s <= 0 {
		return &timeline.ConfigError{Field: "speed", Reason: "must be positive"}
	}
	c.speed = s
	return nil
}

func (c *Clock) SetLoop(enabled bool) {
	c.loop = enabled
}

// Advance moves virtual time by dt real seconds scaled by speed, firing
// every event whose scheduled time falls in (previous, current] in
// ascending order. Crossing the duration ends the pass: loop mode resets
// to zero (end + time(0) notifications land before any next-pass event),
// otherwise the clock parks in Ended.
func (c *Clock) Advance(dt float64) {
	if c.destroyed || c.state != Playing || dt <= 0 {
		return
	}
	target := c.current + dt*c.speed
	ended := target >= c.duration
	if ended {
		target = c.duration
	}

	fired := false
	for c.next < len(c.events) && c.events[c.next].At <= target {
		ev := c.events[c.next]
		c.next++
		c.visible[ev.Node.ID] = struct{}{}
		c.emit(Notification{Kind: KindNodeAppeared, Node: ev.Node, Time: ev.At})
		fired = true
	}
	c.current = target
	if fired {
		c.emit(Notification{Kind: KindVisibility, Visible: c.visibleIDs(), Time: c.current})
	}
	c.emit(Notification{Kind: KindTime, Time: c.current, Progress: c.current / c.duration})

	if !ended {
		return
	}
	if c.loop {
		c.emit(Notification{Kind: KindEnded, Time: c.duration, Progress: 1, Looped: true})
		c.rewind()
		c.emit(Notification{Kind: KindVisibility, Visible: nil, Time: 0})
		c.emit(Notification{Kind: KindTime, Time: 0, Progress: 0})
		// The next Advance starts the new pass; the tick remainder is
		// deliberately dropped.
		return
	}
	c.state = Ended
	c.emit(Notification{Kind: KindEnded, Time: c.duration, Progress: 1})
}

// Destroy makes every further mutator fail with a StateError. Idempotent;
// any host-side timers must already be cleared by the owner.
func (c *Clock) Destroy() {
	c.destroyed = true
	c.state = Stopped
	c.notify = nil
}

func (c *Clock) visibleIDs() []string {
	ids := make([]string, 0, len(c.visible))
	for id := range c.visible {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Clock) State() State      { return c.state }
func (c *Clock) Current() float64  { return c.current }
func (c *Clock) Duration() float64 { return c.duration }
func (c *Clock) Speed() float64    { return c.speed }
func (c *Clock) Loop() bool        { return c.loop }
func (c *Clock) EventCount() int   { return len(c.events) }
func (c *Clock) Progress() float64 { return c.current / c.duration }
func (c *Clock) VisibleCount() int { return len(c.visible) }
func (c *Clock) Destroyed() bool   { return c.destroyed }
