package world

// DirtyTracker is the set of chunks whose meshes no longer match their
// voxel data. It is owned exclusively by the game loop; no locking.
//
// Edits near a chunk boundary must invalidate neighbors too: the
// marching-cubes mesher samples one voxel past the chunk on the +axis
// sides and the culled mesher's AO reads a 3x3 footprint one step past a
// face. A local coordinate of 0 or ChunkSize-1 on an axis therefore pulls
// in the face neighbor on that side, two such axes the edge neighbor, and
// all three the corner neighbor: {self} plus up to 7 of the 26 neighbors.
type DirtyTracker struct {
	set map[ChunkCoord]struct{}

	// parked holds chunks that went dirty while outside the load radius.
	// The scheduler re-admits them when they come back into range.
	parked map[ChunkCoord]struct{}
}

// NewDirtyTracker creates an empty tracker.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{
		set:    make(map[ChunkCoord]struct{}),
		parked: make(map[ChunkCoord]struct{}),
	}
}

// MarkBlock records that the voxel at world (x,y,z) changed, dirtying the
// owning chunk and every stored neighbor that shares a sampling
// neighborhood with the voxel. Chunks that don't exist in the store are
// skipped; they have no stale mesh to invalidate and will mesh fresh if
// they are ever created.
func (d *DirtyTracker) MarkBlock(store *ChunkStore, x, y, z int) {
	home := BlockToChunk(x, y, z)
	lx, ly, lz := BlockToLocal(x, y, z)

	// Per-axis chunk deltas implied by boundary membership. Index 0 is
	// always the home chunk.
	dxs := boundaryDeltas(lx)
	dys := boundaryDeltas(ly)
	dzs := boundaryDeltas(lz)

	for _, dx := range dxs {
		for _, dy := range dys {
			for _, dz := range dzs {
				coord := ChunkCoord{X: home.X + dx, Y: home.Y + dy, Z: home.Z + dz}
				if dx == 0 && dy == 0 && dz == 0 {
					d.mark(store, coord)
					continue
				}
				if store.HasChunk(coord) {
					d.mark(store, coord)
				}
			}
		}
	}
}

func boundaryDeltas(local int) []int {
	switch local {
	case 0:
		return []int{0, -1}
	case ChunkSize - 1:
		return []int{0, 1}
	default:
		return []int{0}
	}
}

func (d *DirtyTracker) mark(store *ChunkStore, coord ChunkCoord) {
	if ch := store.GetChunk(coord, false); ch != nil {
		ch.MarkDirty()
	}
	d.set[coord] = struct{}{}
}

// MarkChunk dirties a single chunk directly (used when a generator fills
// a whole chunk at once).
func (d *DirtyTracker) MarkChunk(store *ChunkStore, coord ChunkCoord) {
	d.mark(store, coord)
}

// Contains reports whether a chunk is currently dirty.
func (d *DirtyTracker) Contains(coord ChunkCoord) bool {
	_, ok := d.set[coord]
	return ok
}

// Remove clears a chunk from the dirty set, typically right after its
// mesh job has been dispatched.
func (d *DirtyTracker) Remove(coord ChunkCoord) {
	delete(d.set, coord)
}

// Len returns the number of dirty chunks, parked ones excluded.
func (d *DirtyTracker) Len() int {
	return len(d.set)
}

// AppendAll appends every dirty coordinate to dst and returns the slice.
func (d *DirtyTracker) AppendAll(dst []ChunkCoord) []ChunkCoord {
	for coord := range d.set {
		dst = append(dst, coord)
	}
	return dst
}

// Park moves a chunk from the active dirty set to the parked set because
// it left the load radius with its mesh still stale.
func (d *DirtyTracker) Park(coord ChunkCoord) {
	if _, ok := d.set[coord]; ok {
		delete(d.set, coord)
		d.parked[coord] = struct{}{}
	}
}

// AdmitParked moves every parked chunk the predicate accepts back into
// the active dirty set and returns how many were re-admitted.
func (d *DirtyTracker) AdmitParked(loaded func(ChunkCoord) bool) int {
	n := 0
	for coord := range d.parked {
		if loaded(coord) {
			delete(d.parked, coord)
			d.set[coord] = struct{}{}
			n++
		}
	}
	return n
}

// ParkedLen returns the number of chunks waiting outside the load radius.
func (d *DirtyTracker) ParkedLen() int {
	return len(d.parked)
}
