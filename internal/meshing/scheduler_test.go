package meshing

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelcraft/internal/config"
	"voxelcraft/internal/world"
)

// recordingSink captures every applied mesh for inspection.
type recordingSink struct {
	applied []world.ChunkCoord
}

func (r *recordingSink) ApplyMesh(coord world.ChunkCoord, _ *MeshBuffers) {
	r.applied = append(r.applied, coord)
}

func newTestScheduler(t *testing.T, w *world.World) (*Scheduler, *recordingSink, *WorkerPool) {
	t.Helper()
	pool := NewWorkerPool(3, 16)
	t.Cleanup(pool.Shutdown)
	sink := &recordingSink{}
	return NewScheduler(w, pool, sink), sink, pool
}

// waitIngest ticks until the scheduler has drained all in-flight jobs.
func waitIngest(t *testing.T, s *Scheduler) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for s.InFlight() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for mesh results")
		}
		time.Sleep(time.Millisecond)
		s.ingest()
	}
}

func TestSchedulerMeshesEditedChunk(t *testing.T) {
	w := world.New()
	w.SetBlock(8, 8, 8, 255, 1, 2, 3)

	s, sink, _ := newTestScheduler(t, w)
	actor := mgl32.Vec3{8, 8, 8}

	s.Tick(actor)
	require.Equal(t, 1, s.InFlight())
	waitIngest(t, s)

	require.Len(t, sink.applied, 1)
	assert.Equal(t, world.ChunkCoord{}, sink.applied[0])

	mesh := s.Mesh(world.ChunkCoord{})
	require.NotNil(t, mesh)
	assert.Greater(t, mesh.TriangleCount(), 0)
	assert.Zero(t, w.Dirty().Len())
}

func TestSchedulerDistancePriority(t *testing.T) {
	w := world.New()
	// Three dirty chunks at increasing distance from the actor.
	w.SetBlock(8, 8, 8, 255, 0, 0, 0)    // chunk (0,0,0)
	w.SetBlock(40, 8, 8, 255, 0, 0, 0)   // chunk (2,0,0)
	w.SetBlock(72, 8, 8, 255, 0, 0, 0)   // chunk (4,0,0)

	s, _, _ := newTestScheduler(t, w)

	config.SetMaxMeshesPerTick(2)
	defer config.SetMaxMeshesPerTick(3)

	s.Tick(mgl32.Vec3{8, 8, 8})

	// The two nearest chunks dispatch; the farthest stays dirty.
	_, near := s.inFlight[world.ChunkCoord{}]
	_, mid := s.inFlight[world.ChunkCoord{X: 2}]
	_, far := s.inFlight[world.ChunkCoord{X: 4}]
	assert.True(t, near, "nearest chunk should be dispatched")
	assert.True(t, mid, "second nearest chunk should be dispatched")
	assert.False(t, far, "farthest chunk should wait for budget")
	assert.True(t, w.Dirty().Contains(world.ChunkCoord{X: 4}))
}

func TestSchedulerSingleJobPerChunk(t *testing.T) {
	w := world.New()
	w.SetBlock(8, 8, 8, 255, 0, 0, 0)

	s, _, _ := newTestScheduler(t, w)
	actor := mgl32.Vec3{8, 8, 8}

	s.Tick(actor)
	require.Equal(t, 1, s.InFlight())

	// Re-dirty while the job is in flight: no second dispatch. Going
	// through the tracker keeps the test off the chunk buffers a worker
	// is reading.
	w.Dirty().MarkChunk(w.Store(), world.ChunkCoord{})
	s.Tick(actor)
	assert.Equal(t, 1, s.InFlight(), "chunk with a job in flight must not be redispatched")
	assert.True(t, w.Dirty().Contains(world.ChunkCoord{}), "re-dirtied chunk stays in the dirty set")
}

func TestSchedulerBackPressureKeepsStaleMesh(t *testing.T) {
	w := world.New()
	w.SetBlock(8, 8, 8, 255, 0, 0, 0)

	s, sink, _ := newTestScheduler(t, w)
	actor := mgl32.Vec3{8, 8, 8}

	s.Tick(actor)
	w.Dirty().MarkChunk(w.Store(), world.ChunkCoord{}) // re-dirty during flight
	waitIngest(t, s)

	// The stale-by-one-edit mesh was applied and the chunk remains
	// dirty for the follow-up.
	assert.Len(t, sink.applied, 1)
	assert.NotNil(t, s.Mesh(world.ChunkCoord{}))
	assert.True(t, w.Dirty().Contains(world.ChunkCoord{}))

	// The follow-up runs on the next tick.
	s.Tick(actor)
	waitIngest(t, s)
	assert.Len(t, sink.applied, 2)
	assert.False(t, w.Dirty().Contains(world.ChunkCoord{}))
}

func TestSchedulerWorkerAffinity(t *testing.T) {
	w := world.New()
	w.SetBlock(8, 8, 8, 255, 0, 0, 0)

	s, _, _ := newTestScheduler(t, w)
	actor := mgl32.Vec3{8, 8, 8}

	s.Tick(actor)
	first, ok := s.inFlight[world.ChunkCoord{}]
	require.True(t, ok)
	waitIngest(t, s)

	// Interleave other chunks to advance the round-robin cursor past the
	// first worker: three new chunks on three workers leave it at 1.
	w.SetBlock(24, 8, 8, 255, 0, 0, 0)
	w.SetBlock(40, 8, 8, 255, 0, 0, 0)
	w.SetBlock(72, 8, 8, 255, 0, 0, 0)
	s.Tick(actor)
	waitIngest(t, s)

	// The re-dirtied chunk goes back to the worker that meshed it.
	w.SetBlock(8, 9, 8, 255, 0, 0, 0)
	s.Tick(actor)
	again, ok := s.inFlight[world.ChunkCoord{}]
	require.True(t, ok)
	assert.Equal(t, first, again, "follow-up job should pin to the same worker")
	waitIngest(t, s)
}

func TestSchedulerParksOutOfRadius(t *testing.T) {
	w := world.New()
	// Far chunk: outside the default radius from the actor.
	w.SetBlock(8+world.ChunkSize*20, 8, 8, 255, 0, 0, 0)

	s, sink, _ := newTestScheduler(t, w)
	actor := mgl32.Vec3{8, 8, 8}

	s.Tick(actor)
	assert.Zero(t, s.InFlight())
	assert.Zero(t, w.Dirty().Len())
	assert.Equal(t, 1, w.Dirty().ParkedLen(), "out-of-radius chunk should be parked")

	// Actor moves into range: the parked chunk is re-admitted and
	// dispatched.
	nearActor := mgl32.Vec3{8 + world.ChunkSize*20, 8, 8}
	s.Tick(nearActor)
	assert.Equal(t, 1, s.InFlight())
	assert.Zero(t, w.Dirty().ParkedLen())
	waitIngest(t, s)
	assert.Len(t, sink.applied, 1)
}

func TestSchedulerFlushSync(t *testing.T) {
	w := world.New()
	g := world.NewGenerator(1337)
	for cx := -1; cx <= 1; cx++ {
		for cz := -1; cz <= 1; cz++ {
			w.GenerateChunk(g, world.ChunkCoord{X: cx, Z: cz})
		}
	}

	s, sink, _ := newTestScheduler(t, w)
	s.FlushSync(mgl32.Vec3{})

	assert.Zero(t, w.Dirty().Len())
	assert.Zero(t, s.InFlight())
	assert.Len(t, sink.applied, 9)
}

func TestSchedulerMeshSlotReused(t *testing.T) {
	w := world.New()
	w.SetBlock(8, 8, 8, 255, 0, 0, 0)

	s, _, _ := newTestScheduler(t, w)
	actor := mgl32.Vec3{8, 8, 8}

	s.Tick(actor)
	waitIngest(t, s)
	slot := s.Mesh(world.ChunkCoord{})
	require.NotNil(t, slot)

	w.SetBlock(9, 8, 8, 255, 0, 0, 0)
	s.Tick(actor)
	waitIngest(t, s)

	assert.Same(t, slot, s.Mesh(world.ChunkCoord{}), "mesh slot must be repopulated in place, not reallocated")
}

func TestSchedulerCulledKindProducesIndices(t *testing.T) {
	w := world.New()
	w.SetBlock(8, 8, 8, 255, 0, 0, 0)

	config.SetMesher(config.MesherCulledFaces)
	defer config.SetMesher(config.MesherMarchingCubes)

	s, _, _ := newTestScheduler(t, w)
	s.FlushSync(mgl32.Vec3{8, 8, 8})

	mesh := s.Mesh(world.ChunkCoord{})
	require.NotNil(t, mesh)
	assert.NotEmpty(t, mesh.Indices)
	assert.Equal(t, 24, mesh.VertexCount())
}
