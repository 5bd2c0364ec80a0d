package midifile

import (
	"path/filepath"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/sonigraph/sonigraph-go/internal/music"
)

func TestKeyForStandardPitches(t *testing.T) {
	cases := []struct {
		freq float64
		key  uint8
	}{
		{440, 69},     // A4
		{261.63, 60},  // middle C
		{880, 81},     // A5
		{0.001, 0},    // clamps low
		{30000, 127},  // clamps high
		{466.16, 70},  // A#4, nearest-key rounding
	}
	for _, c := range cases {
		if got := keyFor(c.freq); got != c.key {
			t.Errorf("keyFor(%f) = %d, want %d", c.freq, got, c.key)
		}
	}
}

func TestChannelAssignmentSkipsPercussion(t *testing.T) {
	seen := make(map[uint8]bool)
	for i := 0; i < 15; i++ {
		ch := channelFor(i)
		if ch == 9 {
			t.Fatalf("instrument %d landed on the percussion channel", i)
		}
		if seen[ch] {
			t.Fatalf("channel %d assigned twice within the first 15", ch)
		}
		seen[ch] = true
	}
	// The 16th instrument wraps around.
	if channelFor(15) != channelFor(0) {
		t.Fatalf("expected wraparound after 15 instruments")
	}
}

func TestVelocityForClamps(t *testing.T) {
	if velocityFor(0) != 1 {
		t.Fatalf("silent velocity should clamp to 1")
	}
	if velocityFor(1) != 127 {
		t.Fatalf("full velocity should map to 127")
	}
	if velocityFor(0.5) != 64 {
		t.Fatalf("half velocity should round to 64, got %d", velocityFor(0.5))
	}
}

func TestWriteProducesReadableFile(t *testing.T) {
	notes := []Timed{
		{At: 0, Note: music.Note{NodeID: "a", Pitch: 261.63, Duration: 0.5, Velocity: 0.6, Instrument: "piano"}},
		{At: 0.5, Note: music.Note{NodeID: "b", Pitch: 440, Duration: 0.5, Velocity: 0.7, Instrument: "piano"}},
		{At: 1.0, Note: music.Note{NodeID: "c", Pitch: 523.25, Duration: 1.0, Velocity: 0.8, Instrument: "cello"}},
	}
	path := filepath.Join(t.TempDir(), "out.mid")
	if err := Write(path, notes, 120); err != nil {
		t.Fatalf("write: %v", err)
	}

	rd, err := smf.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	// Tempo track plus one track per instrument.
	if got := len(rd.Tracks); got != 3 {
		t.Fatalf("expected 3 tracks, got %d", got)
	}
	tempos := rd.TempoChanges()
	if len(tempos) == 0 || tempos[0].BPM != 120 {
		t.Fatalf("tempo not preserved: %+v", tempos)
	}
}

func TestWriteRejectsEmptyAndBadTempo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mid")
	if err := Write(path, nil, 120); err == nil {
		t.Fatalf("expected error for empty sequence")
	}
	notes := []Timed{{At: 0, Note: music.Note{Pitch: 440, Duration: 1, Velocity: 0.5, Instrument: "piano"}}}
	if err := Write(path, notes, 0); err == nil {
		t.Fatalf("expected error for zero tempo")
	}
}
