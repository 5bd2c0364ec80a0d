package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
)

type countingSource struct {
	calls int
	value float32
}

func (s *countingSource) Process(dst []float32) {
	s.calls++
	for i := range dst {
		dst[i] = s.value
	}
}

func TestStreamReaderEncodesFramesLittleEndian(t *testing.T) {
	src := &countingSource{value: 0.25}
	r := newStreamReader(src, nil)

	p := make([]byte, 4*frameBytes)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != len(p) {
		t.Fatalf("short read: %d of %d", n, len(p))
	}
	if src.calls != 1 {
		t.Fatalf("expected one Process call per Read, got %d", src.calls)
	}
	for i := 0; i < 8; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if got != 0.25 {
			t.Fatalf("sample %d decoded to %f", i, got)
		}
	}
}

func TestStreamReaderZeroFrames(t *testing.T) {
	src := &countingSource{}
	r := newStreamReader(src, nil)
	n, err := r.Read(make([]byte, frameBytes-1))
	if n != 0 || err != nil {
		t.Fatalf("sub-frame read should be a no-op, got n=%d err=%v", n, err)
	}
	if src.calls != 0 {
		t.Fatalf("sub-frame read reached the source")
	}
}

// The done probe ends the stream after the buffer it was seen on, so the
// final rendered samples still reach the device.
func TestStreamReaderSignalsEOFWhenDone(t *testing.T) {
	src := &countingSource{value: 0.5}
	finished := false
	r := newStreamReader(src, func() bool { return finished })

	p := make([]byte, 2*frameBytes)
	if _, err := r.Read(p); err != nil {
		t.Fatalf("read before finish: %v", err)
	}
	finished = true
	n, err := r.Read(p)
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if n != len(p) {
		t.Fatalf("final buffer truncated: %d of %d", n, len(p))
	}
}
