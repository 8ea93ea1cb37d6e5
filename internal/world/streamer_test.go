package world

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestStreamerGeneratesAroundActor(t *testing.T) {
	w := New()
	gen := NewGenerator(1337)
	s := NewStreamer(w, gen, 2)
	defer s.Close()

	actor := mgl32.Vec3{8, 8, 8}
	s.RequestAround(actor, 1)

	deadline := time.Now().Add(5 * time.Second)
	marked := 0
	for s.Pending() > 0 || marked == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for streamed chunks")
		}
		marked += s.Drain()
		time.Sleep(time.Millisecond)
	}
	marked += s.Drain()

	// Radius 1 sphere around chunk (0,0,0): self plus 6 face neighbors.
	if marked != 7 {
		t.Errorf("streamed %d chunks, want 7", marked)
	}
	if !w.Store().HasChunk(ChunkCoord{}) {
		t.Error("center chunk missing")
	}
	if !w.Dirty().Contains(ChunkCoord{}) {
		t.Error("streamed chunk should be dirty")
	}
}

func TestStreamerSkipsExisting(t *testing.T) {
	w := New()
	gen := NewGenerator(1)
	w.GenerateChunk(gen, ChunkCoord{})

	s := NewStreamer(w, gen, 1)
	defer s.Close()

	if s.request(ChunkCoord{}) {
		t.Error("existing chunk should not be requested")
	}
}

func TestStreamerBoundedStore(t *testing.T) {
	w := NewBounded(Bounds{MaxX: 0, MaxY: 0, MaxZ: 0})
	gen := NewGenerator(1)
	s := NewStreamer(w, gen, 1)
	defer s.Close()

	if s.request(ChunkCoord{X: 5}) {
		t.Error("out-of-bounds chunk should not be requested")
	}
}
