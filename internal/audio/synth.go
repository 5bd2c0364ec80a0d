package audio

import (
	"math"
	"sync"
)

// voiceLimit bounds polyphony; beyond it the quietest voice is stolen.
const voiceLimit = 32

// Waveform selects the oscillator shape a voice runs.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
	WavePluck // saw with a fast decay regardless of note length
)

// WaveformForFamily maps instrument families to oscillator shapes. Unknown
// families fall back to a sine.
func WaveformForFamily(family string) Waveform {
	switch family {
	case "keys", "percussive":
		return WaveTriangle
	case "strings", "brass":
		return WaveSaw
	case "winds", "pads":
		return WaveSine
	case "electronic":
		return WaveSquare
	}
	return WaveSine
}

type voice struct {
	active  bool
	wave    Waveform
	phase   float64
	incr    float64 // phase increment per frame
	amp     float64 // peak amplitude from velocity
	env     float64 // current envelope level
	attack  int     // frames of linear attack left
	rise    float64 // attack step per frame
	decay   float64 // per-frame envelope multiplier after the attack
	started uint64  // global frame the voice began, for stealing order
}

// Synth is a fixed-size polyphonic voice bank. NoteOn may be called from
// any goroutine; Process is called from the audio callback.
type Synth struct {
	mu         sync.Mutex
	sampleRate int
	voices     [voiceLimit]voice
	frame      uint64
	master     float64
}

func NewSynth(sampleRate int) *Synth {
	return &Synth{sampleRate: sampleRate, master: 0.5}
}

// NoteOn starts a voice. Duration shapes the decay: the envelope falls to
// roughly 1% of peak over the note length, so long notes ring and short
// ones click off. When every slot is busy the oldest voice is stolen.
func (s *Synth) NoteOn(freq, velocity, duration float64, wave Waveform) {
	if freq <= 0 || velocity <= 0 || duration <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := -1
	for i := range s.voices {
		if !s.voices[i].active {
			slot = i
			break
		}
	}
	if slot < 0 {
		oldest := uint64(math.MaxUint64)
		for i := range s.voices {
			if s.voices[i].started < oldest {
				oldest = s.voices[i].started
				slot = i
			}
		}
	}

	frames := duration * float64(s.sampleRate)
	attack := int(0.005 * float64(s.sampleRate))
	if attack < 1 {
		attack = 1
	}
	if wave == WavePluck {
		frames = math.Min(frames, 0.15*float64(s.sampleRate))
	}
	s.voices[slot] = voice{
		active:  true,
		wave:    wave,
		incr:    freq / float64(s.sampleRate),
		amp:     velocity,
		attack:  attack,
		rise:    1 / float64(attack),
		decay:   math.Pow(0.01, 1/frames),
		started: s.frame,
	}
}

// AllOff silences every voice immediately.
func (s *Synth) AllOff() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.voices {
		s.voices[i].active = false
	}
}

// Idle reports whether no voice is sounding.
func (s *Synth) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.voices {
		if s.voices[i].active {
			return false
		}
	}
	return true
}

// Process renders interleaved stereo frames, mixing all active voices.
func (s *Synth) Process(dst []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(dst) / 2
	for f := 0; f < frames; f++ {
		var mix float64
		for i := range s.voices {
			v := &s.voices[i]
			if !v.active {
				continue
			}
			mix += sample(v.wave, v.phase) * v.env * v.amp
			v.phase += v.incr
			if v.phase >= 1 {
				v.phase -= 1
			}
			if v.attack > 0 {
				v.attack--
				v.env += v.rise
				if v.env > 1 {
					v.env = 1
				}
			} else {
				v.env *= v.decay
				if v.env < 1e-4 {
					v.active = false
				}
			}
		}
		out := float32(mix * s.master)
		dst[f*2] = out
		dst[f*2+1] = out
	}
	s.frame += uint64(frames)
}

func sample(w Waveform, phase float64) float64 {
	switch w {
	case WaveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case WaveSaw, WavePluck:
		return 2*phase - 1
	case WaveSquare:
		if phase < 0.5 {
			return 0.6
		}
		return -0.6
	}
	return math.Sin(2 * math.Pi * phase)
}
