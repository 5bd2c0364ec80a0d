// Package sonigraph turns a timestamped vault graph into a deterministic,
// time-ordered stream of note instructions with a synchronized visual
// timeline. The Animator is the facade: it builds and spaces the timeline,
// owns the playback clock, and routes every fired event through the
// musical mapping engine to the host's callbacks.
package sonigraph

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sonigraph/sonigraph-go/internal/clock"
	"github.com/sonigraph/sonigraph-go/internal/music"
	"github.com/sonigraph/sonigraph-go/internal/timeline"
)

// PlaybackEvent carries animator events from Watch().
type PlaybackEvent struct {
	Kind     int
	Time     float64
	Progress float64
	Node     *timeline.Node // EventNodeAppeared
	Note     *music.Note    // EventNodeAppeared; nil when the density gate skipped
	Visible  []string       // EventVisibilityChanged
	Looped   bool           // EventAnimationEnded
}

const (
	EventNodeAppeared int = iota
	EventVisibilityChanged
	EventTimeChanged
	EventAnimationEnded
)

type Option func(*animatorConfig)

type animatorConfig struct {
	timeline     timeline.Config
	music        music.Config
	instruments  []string
	tickInterval time.Duration
	logger       zerolog.Logger
}

func defaultAnimatorConfig() animatorConfig {
	return animatorConfig{
		timeline:     timeline.DefaultConfig(),
		music:        music.DefaultConfig(),
		instruments:  []string{"piano", "strings", "flute", "pad"},
		tickInterval: 16 * time.Millisecond,
		logger:       zerolog.Nop(),
	}
}

func WithTimelineConfig(cfg timeline.Config) Option {
	return func(c *animatorConfig) { c.timeline = cfg }
}

func WithMusicConfig(cfg music.Config) Option {
	return func(c *animatorConfig) { c.music = cfg }
}

// WithInstruments sets the enabled-instrument set handed to every mapping
// call. An empty set makes the engine substitute its default instrument.
func WithInstruments(names []string) Option {
	return func(c *animatorConfig) { c.instruments = names }
}

// WithTickInterval sets the internal ticker period. Zero disables the
// internal driver entirely; the host then calls Tick itself, once per
// animation frame or audio buffer.
func WithTickInterval(d time.Duration) Option {
	return func(c *animatorConfig) { c.tickInterval = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *animatorConfig) { c.logger = log }
}

// Animator binds timeline, clock and mapping engine for one graph. All
// state mutation happens under one mutex in the caller's context; the
// optional internal ticker is the only goroutine it ever starts, and only
// while playing.
type Animator struct {
	mu      sync.Mutex
	cfg     animatorConfig
	clk     *clock.Clock
	engine  *music.Engine
	info    timeline.Info
	pending []clock.Notification

	cbs callbacks

	eventCh   chan PlaybackEvent
	eventChMu sync.Mutex

	tickStop  chan struct{}
	destroyed bool
}

// NewAnimator builds, spaces and validates the whole timeline up front.
// Configuration problems surface here as ConfigError, never mid-playback.
func NewAnimator(nodes []timeline.Node, opts ...Option) (*Animator, error) {
	cfg := defaultAnimatorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	events, info, err := timeline.Build(nodes, cfg.timeline)
	if err != nil {
		return nil, err
	}
	spaced, err := timeline.Space(events, cfg.timeline, cfg.logger)
	if err != nil {
		return nil, err
	}
	engine, err := music.NewEngine(cfg.music, cfg.logger)
	if err != nil {
		return nil, err
	}

	a := &Animator{cfg: cfg, engine: engine, info: info}
	clk, err := clock.New(spaced, cfg.timeline.Duration, a.collect)
	if err != nil {
		return nil, err
	}
	clk.SetLoop(cfg.timeline.Loop)
	if cfg.timeline.Speed > 0 {
		if err := clk.SetSpeed(cfg.timeline.Speed); err != nil {
			return nil, err
		}
	}
	a.clk = clk
	cfg.logger.Debug().
		Int("events", info.EventCount).
		Float64("duration", info.Duration).
		Msg("timeline built")
	return a, nil
}

type callbacks struct {
	visibility func([]string)
	time       func(currentTime, progress float64)
	note       func(*timeline.Node, *music.Note)
	ended      func()
}

// delivery is one notification with its note already mapped. Mapping
// happens inside the lock so engine state never races the ticker; callback
// invocation happens outside it so handlers may call back in.
type delivery struct {
	n    clock.Notification
	note *music.Note
}

// collect buffers clock notifications raised inside a locked operation.
func (a *Animator) collect(n clock.Notification) {
	a.pending = append(a.pending, n)
}

func (a *Animator) flushLocked() ([]delivery, callbacks) {
	batch := make([]delivery, 0, len(a.pending))
	for _, n := range a.pending {
		d := delivery{n: n}
		switch n.Kind {
		case clock.KindNodeAppeared:
			d.note = a.engine.Map(n.Node, a.cfg.instruments)
		case clock.KindEnded:
			if n.Looped {
				// Replays must be melodically deterministic.
				a.engine.Reset()
			}
		}
		batch = append(batch, d)
	}
	a.pending = nil
	return batch, a.cbs
}

func (a *Animator) deliver(batch []delivery, cbs callbacks) {
	for _, d := range batch {
		n := d.n
		switch n.Kind {
		case clock.KindNodeAppeared:
			if cbs.note != nil {
				cbs.note(n.Node, d.note)
			}
			a.sendEvent(PlaybackEvent{Kind: EventNodeAppeared, Time: n.Time, Node: n.Node, Note: d.note})
		case clock.KindVisibility:
			if cbs.visibility != nil {
				cbs.visibility(n.Visible)
			}
			a.sendEvent(PlaybackEvent{Kind: EventVisibilityChanged, Time: n.Time, Visible: n.Visible})
		case clock.KindTime:
			if cbs.time != nil {
				cbs.time(n.Time, n.Progress)
			}
			a.sendEvent(PlaybackEvent{Kind: EventTimeChanged, Time: n.Time, Progress: n.Progress})
		case clock.KindEnded:
			if cbs.ended != nil {
				cbs.ended()
			}
			a.sendEvent(PlaybackEvent{Kind: EventAnimationEnded, Time: n.Time, Progress: n.Progress, Looped: n.Looped})
		}
	}
}

// Tick advances virtual time by dt seconds of real time. It is the single
// suspension point of the engine: hosts call it once per frame, audio
// buffer or timer interval. Events crossed by the tick are delivered in
// ascending scheduled order before Tick returns.
func (a *Animator) Tick(dt float64) {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return
	}
	a.clk.Advance(dt)
	batch, cbs := a.flushLocked()
	a.mu.Unlock()
	a.deliver(batch, cbs)
}

func (a *Animator) Play() error {
	a.mu.Lock()
	err := a.clk.Play()
	if err == nil {
		a.startTickerLocked()
	}
	batch, cbs := a.flushLocked()
	a.mu.Unlock()
	a.deliver(batch, cbs)
	return err
}

func (a *Animator) Pause() error {
	a.mu.Lock()
	err := a.clk.Pause()
	a.stopTickerLocked()
	batch, cbs := a.flushLocked()
	a.mu.Unlock()
	a.deliver(batch, cbs)
	return err
}

func (a *Animator) Stop() error {
	a.mu.Lock()
	err := a.clk.Stop()
	if err == nil {
		a.engine.Reset()
	}
	a.stopTickerLocked()
	batch, cbs := a.flushLocked()
	a.mu.Unlock()
	a.deliver(batch, cbs)
	return err
}

func (a *Animator) Seek(t float64) error {
	a.mu.Lock()
	err := a.clk.Seek(t)
	if err == nil && a.clk.Current() == 0 {
		// A pass restarted from zero must replay the identical melody.
		a.engine.Reset()
	}
	batch, cbs := a.flushLocked()
	a.mu.Unlock()
	a.deliver(batch, cbs)
	return err
}

func (a *Animator) SetSpeed(s float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clk.SetSpeed(s)
}

func (a *Animator) SetLoop(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clk.SetLoop(enabled)
}

// Destroy stops the ticker, invalidates the clock and closes the Watch
// channel. Idempotent.
func (a *Animator) Destroy() {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return
	}
	a.destroyed = true
	a.stopTickerLocked()
	a.clk.Destroy()
	a.mu.Unlock()

	a.eventChMu.Lock()
	if a.eventCh != nil {
		close(a.eventCh)
		a.eventCh = nil
	}
	a.eventChMu.Unlock()
}

// startTickerLocked launches the internal drive goroutine. No-op when the
// host ticks manually (WithTickInterval(0)) or a ticker already runs.
func (a *Animator) startTickerLocked() {
	if a.cfg.tickInterval <= 0 || a.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	a.tickStop = stop
	go func() {
		tk := time.NewTicker(a.cfg.tickInterval)
		defer tk.Stop()
		last := time.Now()
		for {
			select {
			case <-stop:
				return
			case now := <-tk.C:
				a.Tick(now.Sub(last).Seconds())
				last = now
			}
		}
	}()
}

func (a *Animator) stopTickerLocked() {
	if a.tickStop != nil {
		close(a.tickStop)
		a.tickStop = nil
	}
}

// Watch returns a buffered channel of playback events. Only the most
// recent Watch channel receives events; slow receivers lose events rather
// than blocking the tick.
func (a *Animator) Watch() <-chan PlaybackEvent {
	ch := make(chan PlaybackEvent, 64)
	a.eventChMu.Lock()
	a.eventCh = ch
	a.eventChMu.Unlock()
	return ch
}

func (a *Animator) sendEvent(ev PlaybackEvent) {
	a.eventChMu.Lock()
	ch := a.eventCh
	a.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (a *Animator) OnVisibilityChanged(cb func(visible []string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cbs.visibility = cb
}

func (a *Animator) OnTimeChanged(cb func(currentTime, progress float64)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cbs.time = cb
}

// OnNodeAppeared is the hook through which a host wires mapped notes to an
// actual audio engine. The note is nil when the density gate held the
// appearance silent. Host failures realizing the note must stay on the
// host's side; the clock keeps ticking regardless.
func (a *Animator) OnNodeAppeared(cb func(node *timeline.Node, note *music.Note)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cbs.note = cb
}

func (a *Animator) OnAnimationEnded(cb func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cbs.ended = cb
}

// TimelineInfo reports the built range, duration, event count and the
// advisory granularity bucket count.
func (a *Animator) TimelineInfo() timeline.Info { return a.info }

func (a *Animator) CurrentTime() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clk.Current()
}

func (a *Animator) Progress() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clk.Progress()
}

func (a *Animator) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clk.State() == clock.Playing
}

func (a *Animator) Ended() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clk.State() == clock.Ended
}
