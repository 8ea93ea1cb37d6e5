package world

const (
	// Chunk dimensions. World block (x,y,z) lives in chunk (x>>ChunkBits, ...)
	// at local offset (x&ChunkMask, ...).
	ChunkBits   = 4
	ChunkSize   = 1 << ChunkBits
	ChunkMask   = ChunkSize - 1
	ChunkVoxels = ChunkSize * ChunkSize * ChunkSize

	// IsoLevel is the density threshold separating solid from empty. It is
	// the marching-cubes isosurface value and the occupancy predicate for
	// the culled mesher, the raycast and collision.
	IsoLevel = 128
)

// ChunkCoord is a unique identifier for a chunk based on its position
// in the chunk grid.
type ChunkCoord struct {
	X, Y, Z int
}

// VoxelIndex converts local coordinates to a flat array index.
// Y is the slowest axis, then Z, then X. Meshers and workers depend on
// this exact layout for cross-chunk sampling.
func VoxelIndex(x, y, z int) int {
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

// Chunk is a 16x16x16 block of voxels, the unit of meshing and scheduling.
// The density and color buffers are allocated once at creation and shared
// by reference with mesh workers; they are never reallocated or moved.
type Chunk struct {
	Coord ChunkCoord

	// density holds one u8 sample per voxel. A voxel is solid iff its
	// density is >= IsoLevel.
	density []uint8

	// color holds 3 bytes (sRGB) per voxel. Undefined where density is 0.
	color []uint8

	// sum is the running total of all density samples. sum == 0 means the
	// chunk is entirely empty and the raycast skips it in O(1).
	sum int32

	dirty bool
}

// NewChunk creates an empty chunk at the given chunk coordinates.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{
		Coord:   coord,
		density: make([]uint8, ChunkVoxels),
		color:   make([]uint8, ChunkVoxels*3),
		dirty:   true,
	}
}

// Density returns the density sample at the given local coordinates.
func (c *Chunk) Density(x, y, z int) uint8 {
	return c.density[VoxelIndex(x, y, z)]
}

// Color returns the sRGB color at the given local coordinates.
func (c *Chunk) Color(x, y, z int) (r, g, b uint8) {
	i := VoxelIndex(x, y, z) * 3
	return c.color[i], c.color[i+1], c.color[i+2]
}

// Solid reports whether the voxel at the given local coordinates is solid.
func (c *Chunk) Solid(x, y, z int) bool {
	return c.density[VoxelIndex(x, y, z)] >= IsoLevel
}

// SetVoxel writes one voxel and keeps the density sum consistent.
func (c *Chunk) SetVoxel(x, y, z int, density, r, g, b uint8) {
	i := VoxelIndex(x, y, z)
	old := c.density[i]
	c.density[i] = density
	c.sum += int32(density) - int32(old)
	ci := i * 3
	c.color[ci] = r
	c.color[ci+1] = g
	c.color[ci+2] = b
}

// Sum returns the total of all density samples in the chunk.
func (c *Chunk) Sum() int32 {
	return c.sum
}

// Empty reports whether the chunk contains no density at all.
func (c *Chunk) Empty() bool {
	return c.sum == 0
}

// IsDirty reports whether the chunk's mesh no longer matches its voxels.
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the chunk for remeshing.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// SetClean clears the dirty flag after a mesh job has been dispatched.
func (c *Chunk) SetClean() {
	c.dirty = false
}

// DensityBuffer exposes the shared density buffer for read-only use by
// mesh workers. Callers must follow the job-message discipline: a worker
// only reads a chunk it has been handed a job for.
func (c *Chunk) DensityBuffer() []uint8 {
	return c.density
}

// ColorBuffer exposes the shared color buffer for read-only use by
// mesh workers.
func (c *Chunk) ColorBuffer() []uint8 {
	return c.color
}

// BlockToChunk converts a world block coordinate to its owning chunk
// coordinate. Arithmetic shift rounds toward negative infinity, so
// negative coordinates map correctly.
func BlockToChunk(x, y, z int) ChunkCoord {
	return ChunkCoord{X: x >> ChunkBits, Y: y >> ChunkBits, Z: z >> ChunkBits}
}

// BlockToLocal converts a world block coordinate to chunk-local offsets.
func BlockToLocal(x, y, z int) (lx, ly, lz int) {
	return x & ChunkMask, y & ChunkMask, z & ChunkMask
}
