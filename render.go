package sonigraph

import (
	"github.com/sonigraph/sonigraph-go/internal/audio"
	"github.com/sonigraph/sonigraph-go/internal/music"
	"github.com/sonigraph/sonigraph-go/internal/timeline"
)

// TimedNote is one scheduled note of an offline render.
type TimedNote struct {
	At   float64 // seconds from playback start
	Note music.Note
}

// RenderNotes performs the whole pipeline without a clock: build, space,
// then map every event in order. The result is exactly the note sequence a
// live pass would produce, which makes it the backbone of file export and
// of cross-checking live playback in tests. Density-gated appearances are
// omitted.
func RenderNotes(nodes []timeline.Node, opts ...Option) ([]TimedNote, timeline.Info, error) {
	cfg := defaultAnimatorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	events, info, err := timeline.Build(nodes, cfg.timeline)
	if err != nil {
		return nil, timeline.Info{}, err
	}
	spaced, err := timeline.Space(events, cfg.timeline, cfg.logger)
	if err != nil {
		return nil, timeline.Info{}, err
	}
	engine, err := music.NewEngine(cfg.music, cfg.logger)
	if err != nil {
		return nil, timeline.Info{}, err
	}

	notes := make([]TimedNote, 0, len(spaced))
	for _, ev := range spaced {
		if note := engine.Map(ev.Node, cfg.instruments); note != nil {
			notes = append(notes, TimedNote{At: ev.At, Note: *note})
		}
	}
	return notes, info, nil
}

// RenderPCM renders the full piece to interleaved stereo float32 samples
// at the given rate, offline and deterministically. The buffer covers the
// configured duration plus whatever tail the final notes need to decay.
func RenderPCM(nodes []timeline.Node, sampleRate int, opts ...Option) ([]float32, error) {
	notes, info, err := RenderNotes(nodes, opts...)
	if err != nil {
		return nil, err
	}

	synth := audio.NewSynth(sampleRate)
	const block = 512
	var out []float32
	buf := make([]float32, block*2)

	next := 0
	frame := 0
	endFrame := int(info.Duration * float64(sampleRate))
	for {
		blockEnd := float64(frame+block) / float64(sampleRate)
		for next < len(notes) && notes[next].At < blockEnd {
			n := notes[next].Note
			synth.NoteOn(n.Pitch, n.Velocity, n.Duration, waveFor(n.Instrument))
			next++
		}
		synth.Process(buf)
		out = append(out, buf...)
		frame += block
		if frame >= endFrame && next >= len(notes) && synth.Idle() {
			return out, nil
		}
	}
}

// waveFor resolves a concrete instrument name to an oscillator shape via
// its family.
func waveFor(instrument string) audio.Waveform {
	family, ok := music.FamilyOf(instrument)
	if !ok {
		return audio.WaveSine
	}
	return audio.WaveformForFamily(family)
}
