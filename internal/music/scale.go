package music

import (
	"fmt"
	"math"
)

// scaleIntervals maps scale names to semitone offsets from the root.
// Degree indexes wrap modulo the interval count.
var scaleIntervals = map[string][]int{
	"major":            {0, 2, 4, 5, 7, 9, 11},
	"minor":            {0, 2, 3, 5, 7, 8, 10},
	"dorian":           {0, 2, 3, 5, 7, 9, 10},
	"phrygian":         {0, 1, 3, 5, 7, 8, 10},
	"lydian":           {0, 2, 4, 6, 7, 9, 11},
	"mixolydian":       {0, 2, 4, 5, 7, 9, 10},
	"locrian":          {0, 1, 3, 5, 6, 8, 10},
	"pentatonic-major": {0, 2, 4, 7, 9},
	"pentatonic-minor": {0, 3, 5, 7, 10},
	"blues":            {0, 3, 5, 6, 7, 10},
	"whole-tone":       {0, 2, 4, 6, 8, 10},
	"chromatic":        {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// rootFrequencies gives each root note's frequency at octave 4,
// equal temperament around A4 = 440.
var rootFrequencies = map[string]float64{
	"C":  261.63,
	"C#": 277.18,
	"D":  293.66,
	"D#": 311.13,
	"E":  329.63,
	"F":  349.23,
	"F#": 369.99,
	"G":  392.00,
	"G#": 415.30,
	"A":  440.00,
	"A#": 466.16,
	"B":  493.88,
}

// Quantizer maps scale-degree/octave pairs onto frequencies for one
// configured scale and root.
type Quantizer struct {
	scale     string
	intervals []int
	baseFreq  float64
}

func NewQuantizer(scale, root string) (*Quantizer, error) {
	intervals, ok := scaleIntervals[scale]
	if !ok {
		return nil, fmt.Errorf("unknown scale %q", scale)
	}
	base, ok := rootFrequencies[root]
	if !ok {
		return nil, fmt.Errorf("unknown root note %q", root)
	}
	return &Quantizer{scale: scale, intervals: intervals, baseFreq: base}, nil
}

// DegreeCount returns how many degrees the scale has before wrapping.
func (q *Quantizer) DegreeCount() int { return len(q.intervals) }

// Freq converts a scale degree plus octave offset to Hz. Degrees outside
// the table wrap; negative degrees wrap from the top.
func (q *Quantizer) Freq(degree, octaveOffset int) float64 {
	n := len(q.intervals)
	d := degree % n
	if d < 0 {
		d += n
	}
	semis := float64(q.intervals[d] + 12*octaveOffset)
	return q.baseFreq * math.Pow(2, semis/12)
}

// ScaleNames lists the supported scales, for config validation messages.
func ScaleNames() []string {
	names := make([]string, 0, len(scaleIntervals))
	for name := range scaleIntervals {
		names = append(names, name)
	}
	return names
}
