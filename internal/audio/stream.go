// Package audio hosts realtime output for the sonification engine: a
// float32 sample bridge into the platform audio device and a small
// polyphonic synthesizer that realizes note instructions.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Source produces interleaved stereo float32 samples on demand. The device
// callback is the clock: each Process call accounts for exactly
// len(dst)/2 frames of real time.
type Source interface {
	Process(dst []float32)
}

// frameBytes is one stereo frame as 32-bit little-endian floats.
const frameBytes = 8

// streamReader adapts a Source to the io.Reader the device player pulls
// from. The done probe, checked once per buffer after rendering, lets the
// owner declare the performance over (clock ended, voices decayed); the
// reader then closes the stream with io.EOF so the device player shuts
// down on its own.
type streamReader struct {
	mu     sync.Mutex
	source Source
	done   func() bool
	buf    []float32
}

func newStreamReader(source Source, done func() bool) *streamReader {
	return &streamReader{source: source, done: done}
}

func (r *streamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	if need := frames * 2; cap(r.buf) < need {
		r.buf = make([]float32, need)
	} else {
		r.buf = r.buf[:need]
	}
	r.source.Process(r.buf)

	off := 0
	for _, s := range r.buf {
		binary.LittleEndian.PutUint32(p[off:], math.Float32bits(s))
		off += 4
	}
	if r.done != nil && r.done() {
		return frames * frameBytes, io.EOF
	}
	return frames * frameBytes, nil
}

func (r *streamReader) Close() error { return nil }

// The device context is process-global and fixed to its first sample rate.
var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextRate int
)

func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if contextRate != sampleRate {
		return nil, fmt.Errorf("audio device already opened at %d Hz (requested %d Hz)", contextRate, sampleRate)
	}
	return context, nil
}

// Output drives a Source through the platform audio device.
type Output struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

// NewOutput opens the device for a source. done may be nil for endless
// sources; otherwise the stream ends once it reports true.
func NewOutput(sampleRate int, source Source, done func() bool) (*Output, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := newStreamReader(source, done)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Output{player: pl, reader: reader}, nil
}

func (o *Output) Play()           { o.player.Play() }
func (o *Output) Pause()          { o.player.Pause() }
func (o *Output) IsPlaying() bool { return o.player.IsPlaying() }

// Position reports how much audio the listener has actually heard.
func (o *Output) Position() time.Duration { return o.player.Position() }

func (o *Output) Close() error {
	o.player.Pause()
	o.player.Close()
	return o.reader.Close()
}
