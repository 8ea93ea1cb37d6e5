package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcraft/internal/profiling"
)

// RaycastResult stores the result of a raycast operation.
type RaycastResult struct {
	Hit      bool
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Voxel    [3]int
	Distance float32
	Value    uint8
	Color    [3]uint8
}

// chunkSkipEpsilon nudges the ray past a chunk boundary after an
// empty-chunk skip so the next floor() lands inside the new chunk.
const chunkSkipEpsilon = 1e-4

// Raycast walks the voxel grid from origin along direction, up to
// maxDist, and reports the first solid voxel.
//
// The traversal is the Amanatides-Woo DDA with one addition: whole
// chunks that are missing from the store or have sum==0 are stepped over
// in a single move to their AABB exit, so empty space costs one
// iteration per chunk rather than one per voxel.
//
// The origin is biased by +0.5 per axis so integer floor yields voxel
// coordinates; voxel (x,y,z) spans [x-0.5,x+0.5) in world space.
func (w *World) Raycast(origin, direction mgl32.Vec3, maxDist float32) RaycastResult {
	defer profiling.Track("world.Raycast")()

	result := RaycastResult{}

	dx := float64(direction.X())
	dy := float64(direction.Y())
	dz := float64(direction.Z())
	if dx == 0 && dy == 0 && dz == 0 {
		return result
	}

	// Biased frame: floor(o + d*t) is the current voxel.
	ox := float64(origin.X()) + 0.5
	oy := float64(origin.Y()) + 0.5
	oz := float64(origin.Z()) + 0.5

	vx := int(math.Floor(ox))
	vy := int(math.Floor(oy))
	vz := int(math.Floor(oz))

	stepX, tDeltaX := axisStep(dx)
	stepY, tDeltaY := axisStep(dy)
	stepZ, tDeltaZ := axisStep(dz)

	tMaxX := boundaryDistance(ox, dx, vx)
	tMaxY := boundaryDistance(oy, dy, vy)
	tMaxZ := boundaryDistance(oz, dz, vz)

	t := 0.0
	var nx, ny, nz float64
	limit := float64(maxDist)

	for t <= limit {
		coord := BlockToChunk(vx, vy, vz)
		chunk := w.store.GetChunk(coord, false)

		if chunk == nil || chunk.Empty() {
			// Skip the whole chunk: advance to its AABB exit.
			exit, axis := chunkExit(coord, ox, oy, oz, dx, dy, dz, t)
			if exit < 0 {
				return result
			}
			t = exit + chunkSkipEpsilon
			vx = int(math.Floor(ox + dx*t))
			vy = int(math.Floor(oy + dy*t))
			vz = int(math.Floor(oz + dz*t))
			nx, ny, nz = 0, 0, 0
			switch axis {
			case 0:
				nx = -float64(stepX)
			case 1:
				ny = -float64(stepY)
			case 2:
				nz = -float64(stepZ)
			}
			tMaxX = boundaryDistance(ox, dx, vx)
			tMaxY = boundaryDistance(oy, dy, vy)
			tMaxZ = boundaryDistance(oz, dz, vz)
			continue
		}

		lx, ly, lz := BlockToLocal(vx, vy, vz)
		value := chunk.Density(lx, ly, lz)
		if value >= IsoLevel {
			r, g, b := chunk.Color(lx, ly, lz)
			result.Hit = true
			result.Voxel = [3]int{vx, vy, vz}
			result.Distance = float32(t)
			result.Value = value
			result.Color = [3]uint8{r, g, b}
			result.Normal = mgl32.Vec3{float32(nx), float32(ny), float32(nz)}
			result.Position = mgl32.Vec3{
				float32(ox + dx*t - 0.5),
				float32(oy + dy*t - 0.5),
				float32(oz + dz*t - 0.5),
			}
			return result
		}

		// Step to the next voxel along the nearest boundary.
		if tMaxX <= tMaxY && tMaxX <= tMaxZ {
			vx += stepX
			t = tMaxX
			tMaxX += tDeltaX
			nx, ny, nz = -float64(stepX), 0, 0
		} else if tMaxY <= tMaxZ {
			vy += stepY
			t = tMaxY
			tMaxY += tDeltaY
			nx, ny, nz = 0, -float64(stepY), 0
		} else {
			vz += stepZ
			t = tMaxZ
			tMaxZ += tDeltaZ
			nx, ny, nz = 0, 0, -float64(stepZ)
		}
	}

	return result
}

// axisStep returns the voxel step and per-voxel t advance for one axis.
// Axes the ray doesn't move along get infinite tDelta so they never win
// the argmin.
func axisStep(d float64) (step int, tDelta float64) {
	if d > 0 {
		return 1, 1 / d
	}
	if d < 0 {
		return -1, -1 / d
	}
	return 0, math.Inf(1)
}

// boundaryDistance returns the t at which the ray leaves voxel v along
// one axis, relative to the ray start.
func boundaryDistance(o, d float64, v int) float64 {
	if d > 0 {
		return (float64(v) + 1 - o) / d
	}
	if d < 0 {
		return (float64(v) - o) / d
	}
	return math.Inf(1)
}

// chunkExit returns the smallest t strictly greater than cur at which
// the ray leaves the AABB of the given chunk, plus the axis it exits on.
// Returns a negative t if the ray cannot leave (degenerate).
func chunkExit(coord ChunkCoord, ox, oy, oz, dx, dy, dz, cur float64) (float64, int) {
	best := math.Inf(1)
	axis := -1

	if t := axisExit(float64(coord.X*ChunkSize), ox, dx); t > cur && t < best {
		best, axis = t, 0
	}
	if t := axisExit(float64(coord.Y*ChunkSize), oy, dy); t > cur && t < best {
		best, axis = t, 1
	}
	if t := axisExit(float64(coord.Z*ChunkSize), oz, dz); t > cur && t < best {
		best, axis = t, 2
	}

	if axis < 0 {
		return -1, -1
	}
	return best, axis
}

// axisExit returns the t at which the ray crosses the far face of the
// chunk slab starting at chunkMin on one axis.
func axisExit(chunkMin, o, d float64) float64 {
	if d > 0 {
		return (chunkMin + ChunkSize - o) / d
	}
	if d < 0 {
		return (chunkMin - o) / d
	}
	return math.Inf(1)
}
