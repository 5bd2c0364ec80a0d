package music

import "math"

// DefaultPhraseLength is the fixed phrase size in notes.
const DefaultPhraseLength = 8

// restChance is the deterministic fraction of interior phrase positions
// collapsed to a short rest-like note for breathing room.
const restChance = 0.12

// durationFactor shapes note length by phrase position: long phrase
// openings, cadential lengthening at the close, short weak beats between.
func durationFactor(pos, phraseLen int) float64 {
	switch {
	case pos == 0:
		return 3.0
	case pos == phraseLen-1:
		return 4.0
	case pos%2 == 1:
		return 0.3
	default:
		return 1.0
	}
}

// noteDuration derives a concrete duration in seconds. Larger files sustain
// slightly longer via a log10 additive term; the occasional interior note
// is collapsed to a tenth of the base as a deterministic rest. Rests never
// land on phrase boundaries, which carry the structural accents.
func noteDuration(base float64, pos, phraseLen int, fileSize int64, seed string) float64 {
	interior := pos != 0 && pos != phraseLen-1
	if interior && hashUnit(seed+"|rest") < restChance {
		return base * 0.1
	}
	sizeTerm := 0.0
	if fileSize > 1 {
		sizeTerm = math.Log10(float64(fileSize)) * 0.02
	}
	return base*durationFactor(pos, phraseLen) + sizeTerm
}

// noteVelocity derives loudness from an arch-shaped phrase envelope
// (crescendo to mid-phrase, diminuendo after), boundary accents, a bounded
// connection-count boost and a deterministic ±5% humanization wobble.
// Output is clamped to [0.1, 1.0].
func noteVelocity(base float64, pos, phraseLen int, connections int, seed string) float64 {
	half := float64(phraseLen-1) / 2
	p := float64(pos)
	env := 0.0
	if half > 0 {
		if p <= half {
			env = 0.2 * (p / half)
		} else {
			env = 0.2 * ((float64(phraseLen-1) - p) / half)
		}
	}
	v := base + env
	switch pos {
	case 0:
		v += 0.15
	case phraseLen / 2:
		v += 0.08
	case phraseLen - 1:
		v += 0.12 // cadence accent
	}
	boost := float64(connections) * 0.01
	if boost > 0.1 {
		boost = 0.1
	}
	v += boost
	v *= 1 + (hashUnit(seed+"|vel")-0.5)*0.1
	return clamp(v, 0.1, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
