package player

import (
	"math"

	"voxelcraft/internal/physics"
	"voxelcraft/internal/world"
)

// maxReach is how far block edits can land from the eye.
const maxReach = 8.0

// BreakBlock clears the voxel under the crosshair. Returns whether an
// edit happened.
func (p *Player) BreakBlock() bool {
	hit := p.World.Raycast(p.EyePosition(), p.FrontVector(), maxReach)
	if !hit.Hit {
		return false
	}
	p.World.ClearBlock(hit.Voxel[0], hit.Voxel[1], hit.Voxel[2])
	return true
}

// PlaceBlock places a solid voxel against the face under the crosshair,
// using the hit normal rounded to integers. In walk mode, placements
// that would intersect the player's own box are refused; fly mode has no
// such check.
func (p *Player) PlaceBlock() bool {
	hit := p.World.Raycast(p.EyePosition(), p.FrontVector(), maxReach)
	if !hit.Hit {
		return false
	}

	nx := int(math.Round(float64(hit.Normal.X())))
	ny := int(math.Round(float64(hit.Normal.Y())))
	nz := int(math.Round(float64(hit.Normal.Z())))
	if nx == 0 && ny == 0 && nz == 0 {
		return false
	}

	x := hit.Voxel[0] + nx
	y := hit.Voxel[1] + ny
	z := hit.Voxel[2] + nz
	if p.World.Solid(x, y, z) {
		return false
	}
	if p.Mode == ModeWalk && blockIntersectsBox(p, x, y, z) {
		return false
	}

	p.World.SetBlock(x, y, z, 255, p.PlaceColor[0], p.PlaceColor[1], p.PlaceColor[2])
	return true
}

// HoveredBlock returns the voxel under the crosshair, if any.
func (p *Player) HoveredBlock() (world.RaycastResult, bool) {
	hit := p.World.Raycast(p.EyePosition(), p.FrontVector(), maxReach)
	return hit, hit.Hit
}

func blockIntersectsBox(p *Player, x, y, z int) bool {
	half := float32(BodyWidth) / 2
	return p.Position.X()-half < float32(x)+1 && p.Position.X()+half > float32(x) &&
		p.Position.Y() < float32(y)+1 && p.Position.Y()+BodyHeight > float32(y) &&
		p.Position.Z()-half < float32(z)+1 && p.Position.Z()+half > float32(z)
}

// SpawnAbove drops the player onto the highest surface under (x, z),
// scanning down from the given start height.
func (p *Player) SpawnAbove(x, z float32, startY float32) {
	pos := p.Position
	pos[0] = x
	pos[1] = startY
	pos[2] = z
	if top, ok := physics.SurfaceBelow(p.World, pos, BodyWidth, int(startY)+64); ok {
		pos[1] = top
	}
	p.Position = pos
}
