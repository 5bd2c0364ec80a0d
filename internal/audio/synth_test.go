package audio

import (
	"math"
	"testing"
)

func render(s *Synth, frames int) []float32 {
	buf := make([]float32, frames*2)
	s.Process(buf)
	return buf
}

func peak(buf []float32) float64 {
	var p float64
	for _, v := range buf {
		if a := math.Abs(float64(v)); a > p {
			p = a
		}
	}
	return p
}

func TestSilentUntilNoteOn(t *testing.T) {
	s := NewSynth(44100)
	if !s.Idle() {
		t.Fatalf("fresh synth should be idle")
	}
	if p := peak(render(s, 256)); p != 0 {
		t.Fatalf("silence expected, peak %f", p)
	}
	s.NoteOn(440, 0.8, 0.5, WaveSine)
	if s.Idle() {
		t.Fatalf("synth should have an active voice")
	}
	if p := peak(render(s, 2048)); p == 0 {
		t.Fatalf("expected audible output after NoteOn")
	}
}

func TestVoiceDecaysToIdle(t *testing.T) {
	const rate = 8000
	s := NewSynth(rate)
	s.NoteOn(440, 0.8, 0.05, WaveTriangle)
	// Render well past the note length; the envelope must die out.
	for i := 0; i < 20; i++ {
		render(s, rate/10)
	}
	if !s.Idle() {
		t.Fatalf("voice never decayed")
	}
}

func TestAllOffSilencesImmediately(t *testing.T) {
	s := NewSynth(44100)
	s.NoteOn(220, 0.9, 5, WaveSaw)
	s.NoteOn(330, 0.9, 5, WaveSquare)
	s.AllOff()
	if !s.Idle() {
		t.Fatalf("AllOff left voices active")
	}
	if p := peak(render(s, 256)); p != 0 {
		t.Fatalf("AllOff still audible, peak %f", p)
	}
}

func TestPolyphonyStealsOldestVoice(t *testing.T) {
	s := NewSynth(44100)
	for i := 0; i < voiceLimit+4; i++ {
		s.NoteOn(200+float64(i), 0.5, 10, WaveSine)
		render(s, 16)
	}
	active := 0
	for i := range s.voices {
		if s.voices[i].active {
			active++
		}
	}
	if active != voiceLimit {
		t.Fatalf("expected %d active voices after stealing, got %d", voiceLimit, active)
	}
}

func TestInvalidNotesIgnored(t *testing.T) {
	s := NewSynth(44100)
	s.NoteOn(0, 0.5, 1, WaveSine)
	s.NoteOn(440, 0, 1, WaveSine)
	s.NoteOn(440, 0.5, 0, WaveSine)
	if !s.Idle() {
		t.Fatalf("invalid notes started voices")
	}
}

func TestFamilyWaveformMapping(t *testing.T) {
	if WaveformForFamily("strings") != WaveSaw {
		t.Fatalf("strings should map to saw")
	}
	if WaveformForFamily("electronic") != WaveSquare {
		t.Fatalf("electronic should map to square")
	}
	if WaveformForFamily("no-such-family") != WaveSine {
		t.Fatalf("unknown family should fall back to sine")
	}
}
