package timeline

import (
	"fmt"
	"time"
)

// Node is one vault entity as exported by the knowledge-store extractor.
// Immutable for the lifetime of a playback session.
type Node struct {
	ID          string
	Title       string
	Path        string
	Type        string
	FileSize    int64
	Connections []string
	Created     time.Time
}

// Event schedules one node appearance on the playback axis.
// At is in seconds within [0, Config.Duration].
type Event struct {
	Node *Node
	At   float64
}

type Window string

const (
	WindowAll       Window = "all-time"
	WindowPastYear  Window = "past-year"
	WindowPastMonth Window = "past-month"
	WindowPastWeek  Window = "past-week"
	WindowPastDay   Window = "past-day"
	WindowPastHour  Window = "past-hour"
)

// Span returns the window length, or 0 for the unbounded window.
func (w Window) Span() time.Duration {
	switch w {
	case WindowAll:
		return 0
	case WindowPastYear:
		return 365 * 24 * time.Hour
	case WindowPastMonth:
		return 30 * 24 * time.Hour
	case WindowPastWeek:
		return 7 * 24 * time.Hour
	case WindowPastDay:
		return 24 * time.Hour
	case WindowPastHour:
		return time.Hour
	}
	return 0
}

func (w Window) valid() bool {
	switch w {
	case WindowAll, WindowPastYear, WindowPastMonth, WindowPastWeek, WindowPastDay, WindowPastHour:
		return true
	}
	return false
}

type Granularity string

const (
	GranularityYear   Granularity = "year"
	GranularityMonth  Granularity = "month"
	GranularityWeek   Granularity = "week"
	GranularityDay    Granularity = "day"
	GranularityHour   Granularity = "hour"
	GranularityCustom Granularity = "custom"
)

func (g Granularity) valid() bool {
	switch g {
	case GranularityYear, GranularityMonth, GranularityWeek, GranularityDay, GranularityHour, GranularityCustom:
		return true
	}
	return false
}

// bucket returns the unit span one marker bucket covers. Custom granularity
// has no fixed unit; callers pass the custom range instead.
func (g Granularity) bucket() time.Duration {
	switch g {
	case GranularityYear:
		return 365 * 24 * time.Hour
	case GranularityMonth:
		return 30 * 24 * time.Hour
	case GranularityWeek:
		return 7 * 24 * time.Hour
	case GranularityDay:
		return 24 * time.Hour
	case GranularityHour:
		return time.Hour
	}
	return 0
}

type SpreadMode string

const (
	SpreadNone       SpreadMode = "none"
	SpreadGentle     SpreadMode = "gentle"
	SpreadAggressive SpreadMode = "aggressive"
)

func (m SpreadMode) valid() bool {
	switch m {
	case SpreadNone, SpreadGentle, SpreadAggressive:
		return true
	}
	return false
}

// Config controls timeline construction and event spacing.
type Config struct {
	Duration    float64 // playback length in seconds, > 0
	Window      Window
	Granularity Granularity
	CustomRange time.Duration // bucket span when Granularity is custom

	SpreadMode            SpreadMode
	MaxSpacingWindow      float64 // seconds a cluster may be spread across
	MinEventSpacing       float64 // seconds between consecutive events after spreading
	SimultaneousThreshold float64 // gap below which events count as one cluster

	Loop  bool
	Speed float64 // playback rate multiplier; 0 means 1

	// Reference anchors relative windows (past-day etc.) for reproducible
	// builds; the zero value means time.Now at build time.
	Reference time.Time
}

func DefaultConfig() Config {
	return Config{
		Duration:              60,
		Window:                WindowAll,
		Granularity:           GranularityMonth,
		SpreadMode:            SpreadGentle,
		MaxSpacingWindow:      5,
		MinEventSpacing:       0.1,
		SimultaneousThreshold: 0.05,
		Speed:                 1,
	}
}

// Info is the advisory metadata attached to a built timeline. Buckets is
// the marker count implied by the granularity; it never filters events.
type Info struct {
	StartDate  time.Time
	EndDate    time.Time
	Duration   float64
	EventCount int
	Buckets    int
}

// ConfigError reports invalid build-time configuration. It is never raised
// mid-playback; the caller must reconfigure.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("timeline config: %s: %s", e.Field, e.Reason)
}

// Validate checks the parts of the configuration that would otherwise fail
// deep inside the build or spacing passes.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return &ConfigError{Field: "duration", Reason: "must be positive"}
	}
	if !c.Window.valid() {
		return &ConfigError{Field: "timeWindow", Reason: fmt.Sprintf("unknown window %q", c.Window)}
	}
	if !c.Granularity.valid() {
		return &ConfigError{Field: "granularity", Reason: fmt.Sprintf("unknown granularity %q", c.Granularity)}
	}
	if !c.SpreadMode.valid() {
		return &ConfigError{Field: "eventSpreadingMode", Reason: fmt.Sprintf("unknown mode %q", c.SpreadMode)}
	}
	if c.SpreadMode != SpreadNone {
		if c.MaxSpacingWindow <= 0 {
			return &ConfigError{Field: "maxSpacingWindow", Reason: "must be positive"}
		}
		if c.MinEventSpacing <= 0 {
			return &ConfigError{Field: "minEventSpacing", Reason: "must be positive"}
		}
		if c.SimultaneousThreshold < 0 {
			return &ConfigError{Field: "simultaneousThreshold", Reason: "must not be negative"}
		}
	}
	return nil
}
