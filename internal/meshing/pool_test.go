package meshing

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelcraft/internal/world"
)

func TestPoolRoundTrip(t *testing.T) {
	w := world.New()
	w.SetBlock(1, 1, 1, 255, 10, 20, 30)
	ch := w.ChunkAt(world.ChunkCoord{})

	pool := NewWorkerPool(2, 4)
	defer pool.Shutdown()

	ok := pool.Submit(0, MeshJob{World: w, Chunk: ch, Coord: ch.Coord})
	require.True(t, ok)

	select {
	case result := <-pool.Results():
		require.NoError(t, result.Err)
		assert.Equal(t, ch.Coord, result.Coord)
		assert.Equal(t, 0, result.Worker)
		require.NotNil(t, result.Buffers)
		assert.Greater(t, result.Buffers.TriangleCount(), 0)
		pool.Release(result.Buffers)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
}

// A job that panics the mesher must come back as an error result, not
// kill the worker.
func TestPoolSurvivesWorkerFailure(t *testing.T) {
	w := world.New()
	pool := NewWorkerPool(1, 4)
	defer pool.Shutdown()

	// A nil chunk panics inside the mesher.
	require.True(t, pool.Submit(0, MeshJob{World: w, Chunk: nil, Coord: world.ChunkCoord{X: 9}}))

	select {
	case result := <-pool.Results():
		assert.Error(t, result.Err)
		assert.Nil(t, result.Buffers)
		assert.Equal(t, world.ChunkCoord{X: 9}, result.Coord)
	case <-time.After(5 * time.Second):
		t.Fatal("no failure result")
	}

	// The worker is still alive and processes the next job.
	w.SetBlock(1, 1, 1, 255, 0, 0, 0)
	ch := w.ChunkAt(world.ChunkCoord{})
	require.True(t, pool.Submit(0, MeshJob{World: w, Chunk: ch, Coord: ch.Coord}))

	select {
	case result := <-pool.Results():
		require.NoError(t, result.Err)
		pool.Release(result.Buffers)
	case <-time.After(5 * time.Second):
		t.Fatal("worker died after failed job")
	}
}

// A failed job leaves the chunk dirty so the scheduler retries it.
func TestSchedulerRetriesFailedJob(t *testing.T) {
	w := world.New()
	w.Store().GetChunk(world.ChunkCoord{X: 3}, true)

	pool := NewWorkerPool(1, 4)
	defer pool.Shutdown()
	s := NewScheduler(w, pool, nil)

	s.apply(MeshResult{Coord: world.ChunkCoord{X: 3}, Err: assert.AnError})
	assert.True(t, w.Dirty().Contains(world.ChunkCoord{X: 3}))
	assert.Nil(t, s.Mesh(world.ChunkCoord{X: 3}))

	// The retry goes through normally.
	s.FlushSync(mgl32.Vec3{})
	assert.NotNil(t, s.Mesh(world.ChunkCoord{X: 3}))
}
