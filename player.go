package sonigraph

import (
	"github.com/sonigraph/sonigraph-go/internal/audio"
	"github.com/sonigraph/sonigraph-go/internal/music"
	"github.com/sonigraph/sonigraph-go/internal/timeline"
)

// performance couples the animator to the synth inside the audio callback.
// The device's sample demand is the tick source, so note timing is locked
// to what the listener hears rather than to a wall-clock timer.
type performance struct {
	anim       *Animator
	synth      *audio.Synth
	sampleRate int
}

func (p *performance) Process(dst []float32) {
	frames := len(dst) / 2
	p.anim.Tick(float64(frames) / float64(p.sampleRate))
	p.synth.Process(dst)
}

func (p *performance) Finished() bool {
	return p.anim.Ended() && p.synth.Idle()
}

// Player realizes an animation as sound through the platform audio device.
// It wires the animator's note callback into a synthesizer and drives the
// animator from the audio callback itself.
type Player struct {
	anim *Animator
	out  *audio.Output
}

// NewPlayer builds an animator for the nodes and attaches it to the audio
// device. The audio callback is the tick source, so the internal timer is
// forced off regardless of the options given.
func NewPlayer(nodes []timeline.Node, sampleRate int, opts ...Option) (*Player, error) {
	opts = append(opts, WithTickInterval(0))
	anim, err := NewAnimator(nodes, opts...)
	if err != nil {
		return nil, err
	}
	synth := audio.NewSynth(sampleRate)
	anim.OnNodeAppeared(func(_ *timeline.Node, note *music.Note) {
		if note == nil {
			return
		}
		synth.NoteOn(note.Pitch, note.Velocity, note.Duration, waveFor(note.Instrument))
	})

	perf := &performance{anim: anim, synth: synth, sampleRate: sampleRate}
	out, err := audio.NewOutput(sampleRate, perf, perf.Finished)
	if err != nil {
		anim.Destroy()
		return nil, err
	}
	return &Player{anim: anim, out: out}, nil
}

// Animator exposes the underlying animator for transport control, watching
// and callbacks. The player owns its lifecycle; do not Destroy it directly.
func (p *Player) Animator() *Animator { return p.anim }

func (p *Player) Play() error {
	if err := p.anim.Play(); err != nil {
		return err
	}
	p.out.Play()
	return nil
}

func (p *Player) Pause() error {
	p.out.Pause()
	return p.anim.Pause()
}

func (p *Player) Finished() bool {
	return p.anim.Ended()
}

// Close stops the device and invalidates the animator.
func (p *Player) Close() error {
	p.out.Pause()
	err := p.out.Close()
	p.anim.Destroy()
	return err
}
