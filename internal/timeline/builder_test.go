package timeline

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func nodeAt(id string, created time.Time) Node {
	return Node{ID: id, Title: id, Path: id + ".md", Type: "note", FileSize: 1024, Created: created}
}

func TestBuildSpreadsEvenDatesLinearly(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 5 * 365 * 24 * time.Hour / 9
	nodes := make([]Node, 10)
	for i := range nodes {
		nodes[i] = nodeAt(fmt.Sprintf("n%02d", i), base.Add(time.Duration(i)*step))
	}
	cfg := DefaultConfig()
	cfg.Duration = 60
	cfg.SpreadMode = SpreadNone

	events, info, err := Build(nodes, cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if info.EventCount != 10 {
		t.Fatalf("expected 10 events, got %d", info.EventCount)
	}
	for i, ev := range events {
		want := 60 * float64(i) / 9
		if math.Abs(ev.At-want) > 1e-6 {
			t.Fatalf("event %d: expected %.6f, got %.6f", i, want, ev.At)
		}
	}
}

func TestBuildEmptyNodeListIsConfigError(t *testing.T) {
	_, _, err := Build(nil, DefaultConfig())
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestBuildRejectsNonPositiveDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = 0
	_, _, err := Build([]Node{nodeAt("a", time.Now())}, cfg)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestBuildIdenticalDatesCollapseToZero(t *testing.T) {
	created := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	nodes := []Node{nodeAt("a", created), nodeAt("b", created), nodeAt("c", created)}
	events, _, err := Build(nodes, DefaultConfig())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, ev := range events {
		if ev.At != 0 {
			t.Fatalf("expected all events at 0, got %f for %s", ev.At, ev.Node.ID)
		}
	}
}

func TestBuildTiesBreakByNodeID(t *testing.T) {
	created := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	nodes := []Node{nodeAt("zz", created), nodeAt("aa", created), nodeAt("mm", created)}
	events, _, err := Build(nodes, DefaultConfig())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for i, want := range []string{"aa", "mm", "zz"} {
		if events[i].Node.ID != want {
			t.Fatalf("event %d: expected %s, got %s", i, want, events[i].Node.ID)
		}
	}
}

func TestBuildWindowFiltersOldNodes(t *testing.T) {
	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	nodes := []Node{
		nodeAt("recent", ref.Add(-2*24*time.Hour)),
		nodeAt("old", ref.Add(-400*24*time.Hour)),
	}
	cfg := DefaultConfig()
	cfg.Window = WindowPastWeek
	cfg.Reference = ref
	events, info, err := Build(nodes, cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(events) != 1 || events[0].Node.ID != "recent" {
		t.Fatalf("expected only the recent node, got %d events", len(events))
	}
	if !info.StartDate.Equal(nodes[0].Created) || !info.EndDate.Equal(nodes[0].Created) {
		t.Fatalf("unexpected info range: %v .. %v", info.StartDate, info.EndDate)
	}
}

func TestBuildWindowWithNoSurvivorsIsConfigError(t *testing.T) {
	ref := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	cfg.Window = WindowPastHour
	cfg.Reference = ref
	_, _, err := Build([]Node{nodeAt("old", ref.Add(-48*time.Hour))}, cfg)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestBuildBucketMetadata(t *testing.T) {
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	nodes := []Node{nodeAt("a", base), nodeAt("b", base.AddDate(0, 0, 20))}
	cfg := DefaultConfig()
	cfg.Granularity = GranularityWeek
	_, info, err := Build(nodes, cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	// 20 days spans two whole weeks plus a partial third.
	if info.Buckets != 3 {
		t.Fatalf("expected 3 week buckets, got %d", info.Buckets)
	}
}
