package world

// World ties the chunk store to the dirty tracker and exposes the block
// level API the meshers, the raycast and the controllers consume.
//
// All writes happen on the game loop goroutine. Mesh workers read chunk
// buffers concurrently but only for chunks they hold a job for, so the
// block API takes no per-voxel locks.
type World struct {
	store *ChunkStore
	dirty *DirtyTracker
}

// New creates a world over an unbounded store.
func New() *World {
	return &World{
		store: NewChunkStore(),
		dirty: NewDirtyTracker(),
	}
}

// NewBounded creates a world over a store restricted to the given chunk
// box, with every chunk in the box materialized up front.
func NewBounded(b Bounds) *World {
	return &World{
		store: NewBoundedChunkStore(b),
		dirty: NewDirtyTracker(),
	}
}

// Store exposes the underlying chunk store.
func (w *World) Store() *ChunkStore {
	return w.store
}

// Dirty exposes the dirty tracker. Owned by the game loop.
func (w *World) Dirty() *DirtyTracker {
	return w.dirty
}

// ChunkAt returns the chunk at the given chunk coordinates, or nil.
func (w *World) ChunkAt(coord ChunkCoord) *Chunk {
	return w.store.GetChunk(coord, false)
}

// ChunkAtBlock returns the chunk containing the given world block, or nil.
func (w *World) ChunkAtBlock(x, y, z int) *Chunk {
	return w.store.GetChunkFromBlockCoords(x, y, z, false)
}

// SetBlock writes one voxel at world coordinates. The owning chunk is
// created on demand in unbounded stores; writes outside a bounded store
// are silently ignored. The edit dirties the owning chunk and every
// stored neighbor whose sampling neighborhood covers the voxel.
func (w *World) SetBlock(x, y, z int, density, r, g, b uint8) {
	chunk := w.store.GetChunkFromBlockCoords(x, y, z, true)
	if chunk == nil {
		return
	}
	lx, ly, lz := BlockToLocal(x, y, z)
	chunk.SetVoxel(lx, ly, lz, density, r, g, b)
	w.dirty.MarkBlock(w.store, x, y, z)
}

// GetBlock returns the density and sRGB color at world coordinates.
// Coordinates outside the store read as empty.
func (w *World) GetBlock(x, y, z int) (density, r, g, b uint8) {
	chunk := w.store.GetChunkFromBlockCoords(x, y, z, false)
	if chunk == nil {
		return 0, 0, 0, 0
	}
	lx, ly, lz := BlockToLocal(x, y, z)
	density = chunk.Density(lx, ly, lz)
	r, g, b = chunk.Color(lx, ly, lz)
	return density, r, g, b
}

// Density returns only the density sample at world coordinates.
func (w *World) Density(x, y, z int) uint8 {
	chunk := w.store.GetChunkFromBlockCoords(x, y, z, false)
	if chunk == nil {
		return 0
	}
	lx, ly, lz := BlockToLocal(x, y, z)
	return chunk.Density(lx, ly, lz)
}

// Solid reports whether the voxel at world coordinates is at or above
// the isolevel.
func (w *World) Solid(x, y, z int) bool {
	return w.Density(x, y, z) >= IsoLevel
}

// ClearBlock removes the voxel at world coordinates.
func (w *World) ClearBlock(x, y, z int) {
	w.SetBlock(x, y, z, 0, 0, 0, 0)
}
