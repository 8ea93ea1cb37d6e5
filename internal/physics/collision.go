// Package physics provides the AABB-vs-voxel probes the character
// controllers are built on. Blocks occupy [v, v+1) on each axis; all
// queries go through World.Solid and never block on meshing.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcraft/internal/world"
)

// BoxCollides reports whether a width x height x width box with its
// bottom center at pos overlaps any solid voxel.
func BoxCollides(w *world.World, pos mgl32.Vec3, width, height float32) bool {
	half := width / 2

	minX := floorToInt(pos.X() - half)
	maxX := floorToInt(pos.X() + half)
	minY := floorToInt(pos.Y())
	maxY := floorToInt(pos.Y() + height)
	minZ := floorToInt(pos.Z() - half)
	maxZ := floorToInt(pos.Z() + half)

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if !w.Solid(x, y, z) {
					continue
				}
				if boxOverlapsBlock(pos, half, height, x, y, z) {
					return true
				}
			}
		}
	}
	return false
}

// Grounded probes the four bottom corners of the box just below the
// feet and reports whether any of them rests on a solid voxel.
func Grounded(w *world.World, pos mgl32.Vec3, width float32) bool {
	half := width / 2
	probeY := floorToInt(pos.Y() - groundProbe)

	for _, sx := range [2]float32{-half, half} {
		for _, sz := range [2]float32{-half, half} {
			if w.Solid(floorToInt(pos.X()+sx), probeY, floorToInt(pos.Z()+sz)) {
				return true
			}
		}
	}
	return false
}

// groundProbe is how far below the feet the ground sensors reach.
const groundProbe = 0.05

// SurfaceBelow returns the Y of the highest solid block top underneath
// the box footprint, searching down from the feet.
func SurfaceBelow(w *world.World, pos mgl32.Vec3, width float32, depth int) (float32, bool) {
	half := width / 2
	minX := floorToInt(pos.X() - half)
	maxX := floorToInt(pos.X() + half)
	minZ := floorToInt(pos.Z() - half)
	maxZ := floorToInt(pos.Z() + half)

	top := float32(0)
	found := false
	startY := floorToInt(pos.Y())
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			for y := startY; y >= startY-depth; y-- {
				if w.Solid(x, y, z) {
					if t := float32(y) + 1; !found || t > top {
						top = t
						found = true
					}
					break
				}
			}
		}
	}
	return top, found
}

func boxOverlapsBlock(pos mgl32.Vec3, half, height float32, bx, by, bz int) bool {
	return pos.X()-half < float32(bx)+1 && pos.X()+half > float32(bx) &&
		pos.Y() < float32(by)+1 && pos.Y()+height > float32(by) &&
		pos.Z()-half < float32(bz)+1 && pos.Z()+half > float32(bz)
}

func floorToInt(v float32) int {
	return int(math.Floor(float64(v)))
}
