package music

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sonigraph/sonigraph-go/internal/timeline"
)

// Config holds the musical parameters for one engine instance.
type Config struct {
	Scale        string
	Root         string
	NoteDuration float64 // base note length in seconds
	Density      float64 // percentage of appearances allowed to sound, (0,100]
	PhraseLength int     // notes per phrase; 0 means DefaultPhraseLength
	BaseVelocity float64 // 0 means the 0.6 default
}

func DefaultConfig() Config {
	return Config{
		Scale:        "major",
		Root:         "C",
		NoteDuration: 0.3,
		Density:      100,
		PhraseLength: DefaultPhraseLength,
		BaseVelocity: 0.6,
	}
}

// Note is the engine's sole output: what should sound, not how.
type Note struct {
	NodeID     string
	Pitch      float64 // Hz
	Duration   float64 // seconds
	Velocity   float64 // 0..1
	Instrument string
}

// session carries every mutable counter the mapping depends on. One value
// per engine instance so concurrent engines (export render vs live
// preview) never interfere.
type session struct {
	counter         int // node appearances seen, 0-based index of the next call
	lastAudio       int // index of the last audible appearance, -1 before any
	lastDegree      int
	notesInPhrase   int
	notesSinceChord int
}

// Engine converts node appearances into note instructions. Map is
// deterministic: the same node sequence against the same config always
// yields the same notes.
type Engine struct {
	cfg       Config
	quantizer *Quantizer
	prog      *Progression
	interval  int
	sess      session
	log       zerolog.Logger
}

func NewEngine(cfg Config, log zerolog.Logger) (*Engine, error) {
	if cfg.Density <= 0 || cfg.Density > 100 {
		return nil, fmt.Errorf("density %.1f out of range (0,100]", cfg.Density)
	}
	if cfg.NoteDuration <= 0 {
		return nil, fmt.Errorf("note duration must be positive")
	}
	if cfg.PhraseLength == 0 {
		cfg.PhraseLength = DefaultPhraseLength
	}
	if cfg.PhraseLength < 2 {
		return nil, fmt.Errorf("phrase length %d too short", cfg.PhraseLength)
	}
	if cfg.BaseVelocity == 0 {
		cfg.BaseVelocity = 0.6
	}
	q, err := NewQuantizer(cfg.Scale, cfg.Root)
	if err != nil {
		return nil, err
	}
	interval := int(math.Round(100 / cfg.Density))
	if interval < 1 {
		interval = 1
	}
	return &Engine{
		cfg:       cfg,
		quantizer: q,
		prog:      NewProgression(cfg.Scale, q.DegreeCount()),
		interval:  interval,
		sess:      session{lastAudio: -1},
		log:       log,
	}, nil
}

// Reset rewinds all musical state to the start of the piece. Called when
// playback restarts from zero, including loop wraparound, so every pass
// over the timeline replays the identical melody.
func (e *Engine) Reset() {
	e.sess = session{lastAudio: -1}
	e.prog.Reset()
}

// Progression exposes the generated chord loop, mainly for hosts that want
// to display the current harmony.
func (e *Engine) Progression() *Progression { return e.prog }

// Map converts one node appearance into a note instruction, or nil when
// the density gate holds this appearance silent. State advances only for
// audible notes.
func (e *Engine) Map(node *timeline.Node, enabled []string) *Note {
	idx := e.sess.counter
	e.sess.counter++

	// Even-interval density gate: an appearance sounds only when at least
	// interval calls separate it from the previous audible one. The very
	// first appearance always sounds.
	if e.sess.lastAudio != -1 && idx-e.sess.lastAudio < e.interval {
		return nil
	}
	e.sess.lastAudio = idx

	instrument, ok := SelectInstrument(node.Type, enabled)
	if !ok {
		instrument = DefaultInstrument
		e.log.Warn().
			Str("node", node.ID).
			Str("type", node.Type).
			Str("substitute", DefaultInstrument).
			Msg("no enabled instrument configured; substituting default")
	}

	pos := e.sess.notesInPhrase % e.cfg.PhraseLength
	degree := e.pickDegree(node, pos)
	pitch := e.quantizer.Freq(degree, octaveOffset(node))
	duration := noteDuration(e.cfg.NoteDuration, pos, e.cfg.PhraseLength, node.FileSize, node.Title)
	velocity := noteVelocity(e.cfg.BaseVelocity, pos, e.cfg.PhraseLength, len(node.Connections), node.Title)

	// Advance musical state only after the full mapping succeeded.
	e.sess.lastDegree = degree
	e.sess.notesInPhrase++
	e.sess.notesSinceChord++
	period := 4 + int(hash32(node.Title)%5)
	if e.sess.notesSinceChord >= period {
		e.prog.Advance()
		e.sess.notesSinceChord = 0
	}

	return &Note{
		NodeID:     node.ID,
		Pitch:      pitch,
		Duration:   duration,
		Velocity:   velocity,
		Instrument: instrument,
	}
}

// pickDegree anchors phrase starts to the chord root, resolves the final
// position of the final chord to the tonic, and otherwise favours
// step-wise motion over chord-tone leaps 70/30. The split is decided by
// the node's title hash, never a PRNG.
func (e *Engine) pickDegree(node *timeline.Node, pos int) int {
	n := e.quantizer.DegreeCount()
	switch {
	case pos == 0:
		return e.prog.Root()
	case pos == e.cfg.PhraseLength-1 && e.prog.OnFinalChord():
		return 0
	}
	h := hash32(node.Title)
	if hashUnit(node.Title+"|leap") < 0.7 {
		// Step-wise: ±1 or ±2 from the previous note.
		steps := [4]int{1, -1, 2, -2}
		d := e.sess.lastDegree + steps[h%4]
		d %= n
		if d < 0 {
			d += n
		}
		return d
	}
	chord := e.prog.Current()
	return chord[h%uint32(len(chord))]
}

// octaveOffset places notes by vault geography: files near the root sit an
// octave up, deeply nested files drift down, and heavily linked hub nodes
// get pulled back up one.
func octaveOffset(node *timeline.Node) int {
	depth := strings.Count(strings.Trim(node.Path, "/"), "/")
	if depth > 3 {
		depth = 3
	}
	offset := 1 - depth
	if len(node.Connections) >= 10 {
		offset++
	}
	if offset > 2 {
		offset = 2
	}
	return offset
}
