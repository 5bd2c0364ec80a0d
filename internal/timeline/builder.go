package timeline

import (
	"sort"
	"time"
)

// Build maps node creation timestamps onto the playback axis [0, Duration].
// Nodes outside the configured window are dropped; the remaining timestamps
// are scaled linearly between the oldest and newest survivor. Ordering ties
// are broken by node ID so rebuilds are deterministic.
func Build(nodes []Node, cfg Config) ([]Event, Info, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Info{}, err
	}
	if len(nodes) == 0 {
		return nil, Info{}, &ConfigError{Field: "nodes", Reason: "empty node list"}
	}

	ref := cfg.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	kept := make([]*Node, 0, len(nodes))
	if span := cfg.Window.Span(); span > 0 {
		cutoff := ref.Add(-span)
		for i := range nodes {
			if !nodes[i].Created.Before(cutoff) && !nodes[i].Created.After(ref) {
				kept = append(kept, &nodes[i])
			}
		}
	} else {
		for i := range nodes {
			kept = append(kept, &nodes[i])
		}
	}
	if len(kept) == 0 {
		return nil, Info{}, &ConfigError{Field: "timeWindow", Reason: "no nodes inside window " + string(cfg.Window)}
	}

	start, end := kept[0].Created, kept[0].Created
	for _, n := range kept[1:] {
		if n.Created.Before(start) {
			start = n.Created
		}
		if n.Created.After(end) {
			end = n.Created
		}
	}

	span := end.Sub(start).Seconds()
	events := make([]Event, len(kept))
	for i, n := range kept {
		at := 0.0
		if span > 0 {
			at = cfg.Duration * n.Created.Sub(start).Seconds() / span
		}
		events[i] = Event{Node: n, At: at}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].At != events[j].At {
			return events[i].At < events[j].At
		}
		return events[i].Node.ID < events[j].Node.ID
	})

	info := Info{
		StartDate:  start,
		EndDate:    end,
		Duration:   cfg.Duration,
		EventCount: len(events),
		Buckets:    bucketCount(start, end, cfg),
	}
	return events, info, nil
}

// bucketCount derives how many granularity markers the span covers.
// Advisory only; the UI marker layer is the sole consumer.
func bucketCount(start, end time.Time, cfg Config) int {
	unit := cfg.Granularity.bucket()
	if cfg.Granularity == GranularityCustom {
		unit = cfg.CustomRange
	}
	if unit <= 0 {
		return 1
	}
	n := int(end.Sub(start)/unit) + 1
	if n < 1 {
		n = 1
	}
	return n
}
