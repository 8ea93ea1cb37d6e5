package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcraft/internal/profiling"
)

// Streamer generates terrain chunks in the background as the actor
// moves. Workers populate fresh chunks off the game loop and install
// them atomically; the chunks become visible to the dirty tracker only
// when the game loop drains the completion channel, so all dirty-set
// mutation stays on the game loop.
type Streamer struct {
	world *World
	gen   *Generator

	jobs chan ChunkCoord
	done chan ChunkCoord

	pending   map[ChunkCoord]struct{}
	pendingMu sync.Mutex

	wg sync.WaitGroup
}

// NewStreamer starts the given number of generation workers.
func NewStreamer(w *World, gen *Generator, workers int) *Streamer {
	if workers < 1 {
		workers = 1
	}
	s := &Streamer{
		world:   w,
		gen:     gen,
		jobs:    make(chan ChunkCoord, 4096),
		done:    make(chan ChunkCoord, 4096),
		pending: make(map[ChunkCoord]struct{}),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Close stops the background workers.
func (s *Streamer) Close() {
	close(s.jobs)
	s.wg.Wait()
}

func (s *Streamer) worker() {
	defer s.wg.Done()
	for coord := range s.jobs {
		if !s.world.store.HasChunk(coord) {
			chunk := NewChunk(coord)
			s.gen.PopulateChunk(chunk)
			if s.world.store.AddChunk(coord, chunk) {
				s.done <- coord
			}
		}
		s.pendingMu.Lock()
		delete(s.pending, coord)
		s.pendingMu.Unlock()
	}
}

// RequestAround enqueues generation for every missing chunk within a
// spherical radius (in chunks) around the actor. Coordinates already present, pending or out
// of bounds are skipped.
func (s *Streamer) RequestAround(actor mgl32.Vec3, radius int) {
	defer profiling.Track("world.Streamer.RequestAround")()

	center := BlockToChunk(int(actor.X()), int(actor.Y()), int(actor.Z()))
	for dy := -radius; dy <= radius; dy++ {
		for dz := -radius; dz <= radius; dz++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy+dz*dz > radius*radius {
					continue
				}
				s.request(ChunkCoord{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz})
			}
		}
	}
}

func (s *Streamer) request(coord ChunkCoord) bool {
	if !s.world.store.InBounds(coord) || s.world.store.HasChunk(coord) {
		return false
	}

	s.pendingMu.Lock()
	if _, ok := s.pending[coord]; ok {
		s.pendingMu.Unlock()
		return false
	}
	s.pending[coord] = struct{}{}
	s.pendingMu.Unlock()

	select {
	case s.jobs <- coord:
		return true
	default:
		// Queue full: roll back so the coordinate can be retried.
		s.pendingMu.Lock()
		delete(s.pending, coord)
		s.pendingMu.Unlock()
		return false
	}
}

// Drain marks every freshly installed chunk dirty. Call once per tick
// from the game loop.
func (s *Streamer) Drain() int {
	n := 0
	for {
		select {
		case coord := <-s.done:
			s.world.dirty.MarkChunk(s.world.store, coord)
			n++
		default:
			return n
		}
	}
}

// Pending returns the number of coordinates queued or being generated.
func (s *Streamer) Pending() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}
