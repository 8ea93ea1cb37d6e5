package meshing

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcraft/internal/config"
	"voxelcraft/internal/profiling"
	"voxelcraft/internal/world"
)

// MeshSink is notified after a chunk's mesh slot has been refreshed.
// The renderer uploads the slot to the GPU here; tests observe it.
type MeshSink interface {
	ApplyMesh(coord world.ChunkCoord, buffers *MeshBuffers)
}

// Scheduler feeds dirty chunks to the worker pool, nearest to the actor
// first, and ingests the results into per-chunk mesh slots.
//
// All of its state (the dirty set, the in-flight map, the affinity map,
// the mesh slots) is owned by the game loop; only the pool's channels
// cross goroutines.
type Scheduler struct {
	world *world.World
	pool  *WorkerPool
	sink  MeshSink

	// meshes holds one persistent slot per meshed chunk, repopulated in
	// place on every remesh.
	meshes map[world.ChunkCoord]*MeshBuffers

	// inFlight maps a dispatched chunk to its worker. At most one job
	// per chunk exists at any time.
	inFlight map[world.ChunkCoord]int

	// lastWorker pins follow-up jobs for a chunk to the worker that
	// last meshed it, keeping per-chunk processing serialized.
	lastWorker map[world.ChunkCoord]int

	nextWorker int

	// candidates is the reused per-tick sort scratch.
	candidates []chunkDistance
}

type chunkDistance struct {
	coord  world.ChunkCoord
	distSq float32
}

// NewScheduler wires a scheduler to a world and a pool. sink may be nil.
func NewScheduler(w *world.World, pool *WorkerPool, sink MeshSink) *Scheduler {
	return &Scheduler{
		world:      w,
		pool:       pool,
		sink:       sink,
		meshes:     make(map[world.ChunkCoord]*MeshBuffers),
		inFlight:   make(map[world.ChunkCoord]int),
		lastWorker: make(map[world.ChunkCoord]int),
	}
}

// Mesh returns the current mesh slot for a chunk, or nil if it has
// never been meshed.
func (s *Scheduler) Mesh(coord world.ChunkCoord) *MeshBuffers {
	return s.meshes[coord]
}

// Meshes exposes the slot map for renderer iteration. Game loop only.
func (s *Scheduler) Meshes() map[world.ChunkCoord]*MeshBuffers {
	return s.meshes
}

// InFlight returns the number of dispatched, not yet ingested jobs.
func (s *Scheduler) InFlight() int {
	return len(s.inFlight)
}

// Tick ingests finished results, re-admits parked chunks that came back
// into range, and dispatches the nearest dirty chunks to the pool.
func (s *Scheduler) Tick(actor mgl32.Vec3) {
	defer profiling.Track("meshing.Scheduler.Tick")()

	s.ingest()

	dirty := s.world.Dirty()
	radius := config.GetLoadRadius()

	dirty.AdmitParked(func(coord world.ChunkCoord) bool {
		return s.loaded(coord, actor, radius)
	})

	// Gather loaded dirty chunks; park the rest. Chunks with a job in
	// flight stay in the dirty set untouched (back-pressure): their
	// follow-up dispatches after the current result lands.
	s.candidates = s.candidates[:0]
	for _, coord := range dirty.AppendAll(nil) {
		if _, busy := s.inFlight[coord]; busy {
			continue
		}
		if !s.loaded(coord, actor, radius) {
			dirty.Park(coord)
			continue
		}
		s.candidates = append(s.candidates, chunkDistance{
			coord:  coord,
			distSq: chunkDistSq(coord, actor),
		})
	}

	sort.Slice(s.candidates, func(i, j int) bool {
		return s.candidates[i].distSq < s.candidates[j].distSq
	})

	budget := config.GetMaxMeshesPerTick()
	for _, cand := range s.candidates {
		if budget == 0 {
			break
		}
		if s.dispatch(cand.coord) {
			budget--
		}
	}
}

// ingest drains the result channel without blocking.
func (s *Scheduler) ingest() {
	for {
		select {
		case result := <-s.pool.Results():
			s.apply(result)
		default:
			return
		}
	}
}

func (s *Scheduler) apply(result MeshResult) {
	delete(s.inFlight, result.Coord)

	if result.Err != nil {
		// Failed job: drop the result, leave the chunk dirty so it is
		// retried on a later tick.
		s.world.Dirty().MarkChunk(s.world.Store(), result.Coord)
		return
	}

	slot := s.meshes[result.Coord]
	if slot == nil {
		slot = NewMeshBuffers()
		s.meshes[result.Coord] = slot
	}
	slot.CopyFrom(result.Buffers)
	s.pool.Release(result.Buffers)

	if s.sink != nil {
		s.sink.ApplyMesh(result.Coord, slot)
	}
	// If the chunk was re-dirtied after dispatch it is still in the
	// dirty set: the mesh we just applied is stale by at most one edit
	// and the next tick queues a fresh job.
}

// dispatch queues one chunk on its assigned worker. Re-dirtied chunks
// go back to the worker that last meshed them; new chunks round-robin.
func (s *Scheduler) dispatch(coord world.ChunkCoord) bool {
	chunk := s.world.ChunkAt(coord)
	if chunk == nil {
		s.world.Dirty().Remove(coord)
		return false
	}

	worker, seen := s.lastWorker[coord]
	if !seen {
		worker = s.nextWorker
		s.nextWorker = (s.nextWorker + 1) % s.pool.Workers()
	}

	job := MeshJob{
		World: s.world,
		Chunk: chunk,
		Coord: coord,
		Kind:  config.GetMesher(),
	}
	if !s.pool.Submit(worker, job) {
		return false
	}

	s.inFlight[coord] = worker
	s.lastWorker[coord] = worker
	s.world.Dirty().Remove(coord)
	chunk.SetClean()
	return true
}

// loaded reports whether a chunk is inside the load radius around the
// actor, measured in chunks.
func (s *Scheduler) loaded(coord world.ChunkCoord, actor mgl32.Vec3, radius int) bool {
	ax := int(actor.X()) >> world.ChunkBits
	ay := int(actor.Y()) >> world.ChunkBits
	az := int(actor.Z()) >> world.ChunkBits
	dx := coord.X - ax
	dy := coord.Y - ay
	dz := coord.Z - az
	return dx*dx+dy*dy+dz*dz <= radius*radius
}

// chunkDistSq returns the squared distance from the actor to the chunk
// center in world units.
func chunkDistSq(coord world.ChunkCoord, actor mgl32.Vec3) float32 {
	half := float32(world.ChunkSize) / 2
	cx := float32(coord.X*world.ChunkSize) + half
	cy := float32(coord.Y*world.ChunkSize) + half
	cz := float32(coord.Z*world.ChunkSize) + half
	dx := cx - actor.X()
	dy := cy - actor.Y()
	dz := cz - actor.Z()
	return dx*dx + dy*dy + dz*dz
}

// RemeshAll marks every stored chunk dirty so a mesher switch takes
// effect across the whole world instead of only on future edits.
func (s *Scheduler) RemeshAll() {
	for _, chunk := range s.world.Store().AllChunks() {
		s.world.Dirty().MarkChunk(s.world.Store(), chunk.Coord)
	}
}

// FlushSync dispatches every dirty chunk regardless of radius or budget
// and blocks until all results have been ingested. Startup and tests
// use it; the interactive loop never does.
func (s *Scheduler) FlushSync(actor mgl32.Vec3) {
	for {
		s.ingest()

		dirty := s.world.Dirty()
		dirty.AdmitParked(func(world.ChunkCoord) bool { return true })

		pending := dirty.AppendAll(nil)
		if len(pending) == 0 && len(s.inFlight) == 0 {
			return
		}
		for _, coord := range pending {
			if _, busy := s.inFlight[coord]; busy {
				continue
			}
			s.dispatch(coord)
		}
		if len(s.inFlight) > 0 {
			s.apply(<-s.pool.Results())
		}
	}
}
