package music

import (
	"math"
	"testing"
)

func TestQuantizerRootDegreeIsBaseFrequency(t *testing.T) {
	q, err := NewQuantizer("major", "A")
	if err != nil {
		t.Fatalf("quantizer: %v", err)
	}
	if got := q.Freq(0, 0); math.Abs(got-440) > 1e-9 {
		t.Fatalf("expected 440, got %f", got)
	}
}

func TestQuantizerOctaveOffsetDoubles(t *testing.T) {
	q, err := NewQuantizer("minor", "C")
	if err != nil {
		t.Fatalf("quantizer: %v", err)
	}
	low := q.Freq(2, 0)
	high := q.Freq(2, 1)
	if math.Abs(high/low-2) > 1e-9 {
		t.Fatalf("octave offset should double frequency: %f vs %f", low, high)
	}
}

func TestQuantizerDegreeWraps(t *testing.T) {
	q, err := NewQuantizer("pentatonic-major", "C")
	if err != nil {
		t.Fatalf("quantizer: %v", err)
	}
	if q.Freq(5, 0) != q.Freq(0, 0) {
		t.Fatalf("degree 5 of a pentatonic scale should wrap to the root")
	}
	if q.Freq(-1, 0) != q.Freq(4, 0) {
		t.Fatalf("negative degrees should wrap from the top")
	}
}

func TestQuantizerMajorThird(t *testing.T) {
	q, err := NewQuantizer("major", "C")
	if err != nil {
		t.Fatalf("quantizer: %v", err)
	}
	// Degree 2 of C major is E, four semitones up.
	want := 261.63 * math.Pow(2, 4.0/12)
	if got := q.Freq(2, 0); math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected %f, got %f", want, got)
	}
}

func TestQuantizerCoversRequiredScales(t *testing.T) {
	required := []string{
		"major", "minor", "dorian", "phrygian", "lydian", "mixolydian",
		"locrian", "pentatonic-major", "pentatonic-minor", "blues",
		"whole-tone", "chromatic",
	}
	for _, name := range required {
		if _, err := NewQuantizer(name, "C"); err != nil {
			t.Fatalf("scale %s missing: %v", name, err)
		}
	}
}

func TestQuantizerRejectsUnknownNames(t *testing.T) {
	if _, err := NewQuantizer("hyperlydian", "C"); err == nil {
		t.Fatalf("expected error for unknown scale")
	}
	if _, err := NewQuantizer("major", "H"); err == nil {
		t.Fatalf("expected error for unknown root")
	}
}
