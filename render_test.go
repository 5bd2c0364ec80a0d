package sonigraph

import (
	"testing"

	"github.com/sonigraph/sonigraph-go/internal/music"
)

func TestRenderNotesIsDeterministic(t *testing.T) {
	nodes := vaultNodes(30)
	opts := []Option{WithTimelineConfig(testTimelineConfig())}

	first, info, err := RenderNotes(nodes, opts...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if info.EventCount != 30 {
		t.Fatalf("expected 30 events, got %d", info.EventCount)
	}
	second, _, err := RenderNotes(nodes, opts...)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("render lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("note %d differs between renders", i)
		}
	}
}

func TestRenderNotesHonorsDensity(t *testing.T) {
	nodes := vaultNodes(40)
	cfg := music.DefaultConfig()
	cfg.Density = 25
	notes, _, err := RenderNotes(nodes,
		WithTimelineConfig(testTimelineConfig()),
		WithMusicConfig(cfg),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// interval 4: appearances 0, 4, 8, ... sound.
	if len(notes) != 10 {
		t.Fatalf("density 25 over 40 events should keep 10 notes, got %d", len(notes))
	}
}

func TestRenderNotesAreSchedulable(t *testing.T) {
	notes, info, err := RenderNotes(vaultNodes(15), WithTimelineConfig(testTimelineConfig()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var prev float64 = -1
	for i, n := range notes {
		if n.At < prev {
			t.Fatalf("note %d out of order at %f", i, n.At)
		}
		prev = n.At
		if n.At < 0 || n.At > info.Duration {
			t.Fatalf("note %d scheduled outside the timeline: %f", i, n.At)
		}
		if n.Note.Pitch <= 0 || n.Note.Velocity <= 0 || n.Note.Duration <= 0 {
			t.Fatalf("note %d not playable: %+v", i, n.Note)
		}
		if n.Note.Instrument == "" {
			t.Fatalf("note %d has no instrument", i)
		}
	}
}

func TestRenderPCMProducesAudio(t *testing.T) {
	const rate = 8000
	cfg := testTimelineConfig()
	cfg.Duration = 2
	samples, err := RenderPCM(vaultNodes(4), rate, WithTimelineConfig(cfg))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(samples) < 2*rate*2 {
		t.Fatalf("buffer shorter than the piece: %d samples", len(samples))
	}
	var nonZero bool
	for _, s := range samples {
		if s != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("rendered audio is silent")
	}

	again, err := RenderPCM(vaultNodes(4), rate, WithTimelineConfig(cfg))
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if len(samples) != len(again) {
		t.Fatalf("render lengths differ: %d vs %d", len(samples), len(again))
	}
	for i := range samples {
		if samples[i] != again[i] {
			t.Fatalf("sample %d differs between renders", i)
		}
	}
}
