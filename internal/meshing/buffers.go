// Package meshing turns chunks into renderable triangle meshes and
// coordinates the background workers that do it.
package meshing

import (
	"voxelcraft/internal/world"
)

// Worst-case marching-cubes output for one chunk: 5 triangles per cube,
// 3 vertices each. Worker scratch buffers are sized for this once so a
// mesh build can never overflow mid-chunk.
const maxVertsPerChunk = 5 * 3 * world.ChunkVoxels

// MeshBuffers is the renderer-facing output of both meshers.
//
// Positions, Normals and Colors hold 3 floats per vertex,
// AmbientOcclusion one. The culled mesher emits indexed quads; the
// marching-cubes mesher emits a non-indexed triangle soup and leaves
// Indices empty, in which case every three consecutive vertices form
// one triangle.
type MeshBuffers struct {
	Positions        []float32
	Normals          []float32
	Colors           []float32
	AmbientOcclusion []float32
	Indices          []uint32
}

// NewMeshBuffers returns empty buffers with no preallocated capacity;
// they grow on first use.
func NewMeshBuffers() *MeshBuffers {
	return &MeshBuffers{}
}

// NewWorkerScratch returns buffers pre-allocated at worst-case capacity
// for use as a worker's private build target.
func NewWorkerScratch() *MeshBuffers {
	return &MeshBuffers{
		Positions:        make([]float32, 0, maxVertsPerChunk*3),
		Normals:          make([]float32, 0, maxVertsPerChunk*3),
		Colors:           make([]float32, 0, maxVertsPerChunk*3),
		AmbientOcclusion: make([]float32, 0, maxVertsPerChunk),
		// Culled faces carry six indices per four vertices.
		Indices: make([]uint32, 0, maxVertsPerChunk*3/2),
	}
}

// VertexCount returns the number of vertices currently held.
func (b *MeshBuffers) VertexCount() int {
	return len(b.Positions) / 3
}

// TriangleCount returns the number of triangles the buffers describe.
func (b *MeshBuffers) TriangleCount() int {
	if len(b.Indices) > 0 {
		return len(b.Indices) / 3
	}
	return b.VertexCount() / 3
}

// Reset empties the buffers while keeping their capacity.
func (b *MeshBuffers) Reset() {
	b.Positions = b.Positions[:0]
	b.Normals = b.Normals[:0]
	b.Colors = b.Colors[:0]
	b.AmbientOcclusion = b.AmbientOcclusion[:0]
	b.Indices = b.Indices[:0]
}

// CopyFrom repopulates b with the contents of src, reusing existing
// capacity. Chunk mesh slots are refreshed through this on every remesh
// so they are never reallocated per frame.
func (b *MeshBuffers) CopyFrom(src *MeshBuffers) {
	b.Positions = append(b.Positions[:0], src.Positions...)
	b.Normals = append(b.Normals[:0], src.Normals...)
	b.Colors = append(b.Colors[:0], src.Colors...)
	b.AmbientOcclusion = append(b.AmbientOcclusion[:0], src.AmbientOcclusion...)
	b.Indices = append(b.Indices[:0], src.Indices...)
}
