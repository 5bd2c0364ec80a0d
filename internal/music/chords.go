package music

// Progression cycles a short harmonic loop expressed as scale-degree sets.
// The melodic generator anchors phrase starts to the current chord root and
// resolves the loop's final chord back to the tonic.
type Progression struct {
	chords [][]int
	idx    int
}

// progressionTemplates hold degree triads in seven-note terms; scales with
// fewer degrees wrap them into range. Major-leaning scales get I-IV-V-I,
// minor-leaning ones i-VI-VII-i so the dominant pull survives the mode.
var (
	majorTemplate = [][]int{{0, 2, 4}, {3, 5, 0}, {4, 6, 1}, {0, 2, 4}}
	minorTemplate = [][]int{{0, 2, 4}, {5, 0, 2}, {6, 1, 3}, {0, 2, 4}}
)

func minorLeaning(scale string) bool {
	switch scale {
	case "minor", "dorian", "phrygian", "locrian", "pentatonic-minor", "blues":
		return true
	}
	return false
}

// NewProgression builds the session progression for a scale. Every degree
// is folded into [0, intervalCount) so pentatonic and hexatonic scales get
// valid chord tones instead of out-of-range indexes.
func NewProgression(scale string, intervalCount int) *Progression {
	template := majorTemplate
	if minorLeaning(scale) {
		template = minorTemplate
	}
	chords := make([][]int, len(template))
	for i, tpl := range template {
		chord := make([]int, len(tpl))
		for j, d := range tpl {
			chord[j] = d % intervalCount
		}
		chords[i] = chord
	}
	return &Progression{chords: chords}
}

// Current returns the active chord's scale degrees.
func (p *Progression) Current() []int { return p.chords[p.idx] }

// Root returns the active chord's root degree.
func (p *Progression) Root() int { return p.chords[p.idx][0] }

// Advance moves to the next chord, wrapping at the end of the loop.
func (p *Progression) Advance() { p.idx = (p.idx + 1) % len(p.chords) }

// OnFinalChord reports whether the cursor sits on the loop's last chord.
func (p *Progression) OnFinalChord() bool { return p.idx == len(p.chords)-1 }

func (p *Progression) Index() int { return p.idx }
func (p *Progression) Len() int   { return len(p.chords) }

// Reset rewinds to the first chord; called on playback restart so replays
// are harmonically identical.
func (p *Progression) Reset() { p.idx = 0 }

// Chords exposes the generated progression (read-only by convention).
func (p *Progression) Chords() [][]int { return p.chords }
