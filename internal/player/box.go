package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcraft/internal/physics"
)

const (
	walkSpeed        = 6.0
	gravity          = 32.0
	terminalVelocity = -78.4
	jumpVelocity     = 9.4
)

// updateWalk advances the box controller one frame: horizontal wish
// velocity from input, gravity, then X, Z and Y resolved independently
// in that order by probing corner sensors against the voxel grid.
func (p *Player) updateWalk(dt float64, in MoveInput) {
	wish := p.wishDirection(in)
	p.Velocity[0] = wish.X() * walkSpeed
	p.Velocity[2] = wish.Z() * walkSpeed

	// Jump on the rising edge of the input while grounded.
	if in.Jump && !p.wasJump && p.OnGround {
		p.Velocity[1] = jumpVelocity
		p.OnGround = false
	}

	p.Velocity[1] -= gravity * float32(dt)
	if p.Velocity[1] < terminalVelocity {
		p.Velocity[1] = terminalVelocity
	}

	delta := p.Velocity.Mul(float32(dt))

	// X sweep.
	if delta.X() != 0 {
		next := mgl32.Vec3{p.Position.X() + delta.X(), p.Position.Y(), p.Position.Z()}
		if physics.BoxCollides(p.World, next, BodyWidth, BodyHeight) {
			p.Velocity[0] = 0
		} else {
			p.Position[0] = next.X()
		}
	}

	// Z sweep.
	if delta.Z() != 0 {
		next := mgl32.Vec3{p.Position.X(), p.Position.Y(), p.Position.Z() + delta.Z()}
		if physics.BoxCollides(p.World, next, BodyWidth, BodyHeight) {
			p.Velocity[2] = 0
		} else {
			p.Position[2] = next.Z()
		}
	}

	// Y sweep.
	if delta.Y() != 0 {
		next := mgl32.Vec3{p.Position.X(), p.Position.Y() + delta.Y(), p.Position.Z()}
		if physics.BoxCollides(p.World, next, BodyWidth, BodyHeight) {
			if p.Velocity[1] <= 0 {
				// Landing: settle the feet onto the surface below.
				if top, ok := physics.SurfaceBelow(p.World, p.Position, BodyWidth, 2); ok {
					p.Position[1] = top
				}
				p.OnGround = true
			}
			// Rising into a ceiling just zeroes the velocity.
			p.Velocity[1] = 0
		} else {
			p.Position[1] = next.Y()
		}
	}

	p.OnGround = physics.Grounded(p.World, p.Position, BodyWidth)
}
