package player

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	flySpeed         = 24.0
	flyVerticalSpeed = 18.0
)

// updateFly integrates the camera position directly from input along
// the camera basis. No collision, no gravity.
func (p *Player) updateFly(dt float64, in MoveInput) {
	step := float32(dt * flySpeed)

	front := p.FrontVector()
	right := p.RightVector()

	var move mgl32.Vec3
	if in.Forward {
		move = move.Add(front)
	}
	if in.Backward {
		move = move.Sub(front)
	}
	if in.Right {
		move = move.Add(right)
	}
	if in.Left {
		move = move.Sub(right)
	}
	if move.LenSqr() > 0 {
		move = move.Normalize().Mul(step)
		p.Position = p.Position.Add(move)
	}

	vertical := float32(dt * flyVerticalSpeed)
	if in.Jump {
		p.Position[1] += vertical
	}
	if in.Sneak {
		p.Position[1] -= vertical
	}

	p.Velocity = mgl32.Vec3{}
	p.OnGround = false
}
