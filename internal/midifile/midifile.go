// Package midifile writes a rendered note sequence to a Standard MIDI
// File, one track per instrument, for playback or editing in external
// tools.
package midifile

import (
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/sonigraph/sonigraph-go/internal/music"
)

// Timed is one note with its playback offset in seconds.
type Timed struct {
	At   float64
	Note music.Note
}

const resolution = 960 // ticks per quarter note

// gmPrograms maps the engine's instrument names onto General MIDI program
// numbers so exported files sound close to live playback.
var gmPrograms = map[string]uint8{
	"piano":          0,
	"electric-piano": 4,
	"celesta":        8,
	"strings":        48,
	"violin":         40,
	"cello":          42,
	"harp":           46,
	"flute":          73,
	"clarinet":       71,
	"oboe":           68,
	"trumpet":        56,
	"horn":           60,
	"trombone":       57,
	"pad":            88,
	"choir":          52,
	"warm-pad":       89,
	"marimba":        12,
	"vibraphone":     11,
	"xylophone":      13,
	"lead":           80,
	"pluck":          84,
	"bass":           38,
}

// Write exports the sequence at the given tempo. Instruments are assigned
// channels in order of first appearance, skipping the percussion channel.
func Write(path string, notes []Timed, bpm float64) error {
	if len(notes) == 0 {
		return fmt.Errorf("midifile: nothing to export")
	}
	if bpm <= 0 {
		return fmt.Errorf("midifile: tempo %.1f not positive", bpm)
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(resolution)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(bpm))
	tempo.Close(0)
	if err := sm.Add(tempo); err != nil {
		return fmt.Errorf("midifile: tempo track: %w", err)
	}

	byInstrument := make(map[string][]Timed)
	var order []string
	for _, n := range notes {
		if _, seen := byInstrument[n.Note.Instrument]; !seen {
			order = append(order, n.Note.Instrument)
		}
		byInstrument[n.Note.Instrument] = append(byInstrument[n.Note.Instrument], n)
	}

	ticksPerSec := resolution * bpm / 60
	for i, instrument := range order {
		ch := channelFor(i)
		var tr smf.Track
		tr.Add(0, midi.ProgramChange(ch, programFor(instrument)))

		type edge struct {
			tick uint32
			on   bool
			key  uint8
			vel  uint8
		}
		var edges []edge
		for _, n := range byInstrument[instrument] {
			key := keyFor(n.Note.Pitch)
			on := uint32(n.At * ticksPerSec)
			off := uint32((n.At + n.Note.Duration) * ticksPerSec)
			if off <= on {
				off = on + 1
			}
			edges = append(edges, edge{tick: on, on: true, key: key, vel: velocityFor(n.Note.Velocity)})
			edges = append(edges, edge{tick: off, key: key})
		}
		// Offs sort before ons at the same tick so retriggers restart.
		sort.SliceStable(edges, func(a, b int) bool {
			if edges[a].tick != edges[b].tick {
				return edges[a].tick < edges[b].tick
			}
			return !edges[a].on && edges[b].on
		})

		var cursor uint32
		for _, e := range edges {
			delta := e.tick - cursor
			cursor = e.tick
			if e.on {
				tr.Add(delta, midi.NoteOn(ch, e.key, e.vel))
			} else {
				tr.Add(delta, midi.NoteOff(ch, e.key))
			}
		}
		tr.Close(0)
		if err := sm.Add(tr); err != nil {
			return fmt.Errorf("midifile: track %q: %w", instrument, err)
		}
	}

	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("midifile: write %s: %w", path, err)
	}
	return nil
}

// channelFor hands out channels 0..15 in order, skipping 9 (GM drums).
func channelFor(i int) uint8 {
	ch := i % 15
	if ch >= 9 {
		ch++
	}
	return uint8(ch)
}

func programFor(instrument string) uint8 {
	if p, ok := gmPrograms[instrument]; ok {
		return p
	}
	return 0
}

// keyFor converts a frequency to the nearest MIDI key, A4 = 440 Hz = 69.
func keyFor(freq float64) uint8 {
	key := int(math.Round(69 + 12*math.Log2(freq/440)))
	if key < 0 {
		key = 0
	}
	if key > 127 {
		key = 127
	}
	return uint8(key)
}

func velocityFor(v float64) uint8 {
	vel := int(math.Round(v * 127))
	if vel < 1 {
		vel = 1
	}
	if vel > 127 {
		vel = 127
	}
	return uint8(vel)
}
