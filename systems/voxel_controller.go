package systems

import (
	"math"

	"github.com/pthm-cable/strata/components"
)

// maxVoxelStep bounds the displacement resolved at once so a fast fall
// cannot skip over a one-block floor.
const maxVoxelStep = 0.5

// VoxelController moves a feet-anchored player through a block world.
type VoxelController struct {
	Blocks   BlockSet
	Collider VoxelCollider
	Movement MovementParams
}

// NewVoxelController builds a controller whose collider matches body.
func NewVoxelController(blocks BlockSet, body components.Body, movement MovementParams) *VoxelController {
	return &VoxelController{
		Blocks:   blocks,
		Collider: VoxelCollider{Radius: body.Radius, Height: body.Height},
		Movement: movement,
	}
}

// Step advances the player by dt. pos is the feet position.
func (c *VoxelController) Step(pos *components.Position, vel *components.Velocity, body *components.Body, look components.Orientation, intent components.Intent, dt float64) StepResult {
	m := c.Movement
	var res StepResult

	vel.X, vel.Z, _ = m.WishVelocity(intent, look.Yaw)
	vel.Y -= m.Gravity * dt
	if body.Grounded && intent.Jump {
		vel.Y += m.JumpImpulse(dt)
		res.Jumped = true
	}

	delta := components.Velocity{X: vel.X * dt, Y: vel.Y * dt, Z: vel.Z * dt}
	steps := int(math.Ceil(max(math.Abs(delta.X), math.Abs(delta.Y), math.Abs(delta.Z)) / maxVoxelStep))
	steps = max(steps, 1)
	part := components.Velocity{X: delta.X / float64(steps), Y: delta.Y / float64(steps), Z: delta.Z / float64(steps)}

	var blocked [3]bool
	grounded := false
	for range steps {
		next, r := c.Collider.ResolveAxes(c.Blocks, *pos, part)
		*pos = next
		grounded = grounded || r.Grounded
		for axis, b := range r.Blocked {
			if !b {
				continue
			}
			blocked[axis] = true
			switch Axis(axis) {
			case AxisX:
				part.X = 0
			case AxisZ:
				part.Z = 0
			case AxisY:
				part.Y = 0
			}
		}
	}

	if blocked[AxisX] {
		vel.X = 0
	}
	if blocked[AxisZ] {
		vel.Z = 0
	}
	if blocked[AxisY] {
		vel.Y = 0
	}
	body.Grounded = grounded
	res.EdgeStop = blocked[AxisX] || blocked[AxisZ]
	return res
}
