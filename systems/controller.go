package systems

import (
	"math"

	"github.com/pthm-cable/strata/components"
	"github.com/pthm-cable/strata/config"
)

// HeightProbe reports ground height at a world (x, z), or false off the map.
type HeightProbe interface {
	Sample(x, z float64) (float64, bool)
}

// MovementParams are the tunables shared by both controllers.
type MovementParams struct {
	MoveSpeed      float64 // target horizontal speed, units/s
	Accel          float64 // time constant toward the target velocity
	Friction       float64 // time constant toward rest
	Gravity        float64 // downward acceleration magnitude
	JumpSpeed      float64 // jump impulse per unit of gravity*dt
	SnapTolerance  float64
	IntentDeadzone float64
}

// MovementFromConfig copies the movement section of a config.
func MovementFromConfig(m config.MovementConfig) MovementParams {
	return MovementParams{
		MoveSpeed:      m.MoveSpeed,
		Accel:          m.Accel,
		Friction:       m.Friction,
		Gravity:        m.Gravity,
		JumpSpeed:      m.JumpSpeed,
		SnapTolerance:  m.SnapTolerance,
		IntentDeadzone: m.IntentDeadzone,
	}
}

// JumpImpulse is the upward velocity a grounded jump adds for a tick of dt.
func (m MovementParams) JumpImpulse(dt float64) float64 {
	return m.JumpSpeed * m.Gravity * dt
}

// WishVelocity turns intent and yaw into a horizontal target velocity and
// returns the intent magnitude alongside it.
func (m MovementParams) WishVelocity(intent components.Intent, yaw float64) (vx, vz, magnitude float64) {
	strafe, forward := intent.Axes()
	magnitude = math.Hypot(strafe, forward)
	if magnitude == 0 {
		return 0, 0, 0
	}

	sin, cos := math.Sincos(yaw)
	// forward = (sin, -cos), right = (cos, sin)
	dx := forward*sin + strafe*cos
	dz := -forward*cos + strafe*sin
	l := math.Hypot(dx, dz)
	return dx / l * m.MoveSpeed, dz / l * m.MoveSpeed, magnitude
}

// blendFactor is the per-tick fraction of the remaining gap to close for a
// time constant tau. It never exceeds 1.
func blendFactor(dt, tau float64) float64 {
	if tau <= 0 {
		return 1
	}
	return min(1, dt/tau)
}

// StepResult reports the discrete events of one controller tick.
type StepResult struct {
	Jumped   bool
	EdgeStop bool // horizontal travel cancelled by the map edge or a wall
}

// HeightfieldController moves an eye-anchored player over a height field.
// Grounded and airborne are not stored; each tick decides from the probe.
type HeightfieldController struct {
	Probe    HeightProbe
	Movement MovementParams
}

// NewHeightfieldController returns a controller probing the given sampler.
func NewHeightfieldController(probe HeightProbe, movement MovementParams) *HeightfieldController {
	return &HeightfieldController{Probe: probe, Movement: movement}
}

// Step advances the player by dt. pos is the eye position. Position,
// velocity and the grounded flag are updated in place.
func (c *HeightfieldController) Step(pos *components.Position, vel *components.Velocity, body *components.Body, look components.Orientation, intent components.Intent, dt float64) StepResult {
	m := c.Movement
	var res StepResult

	// Steer horizontal velocity.
	tx, tz, mag := m.WishVelocity(intent, look.Yaw)
	if mag > m.IntentDeadzone {
		k := blendFactor(dt, m.Accel)
		vel.X += (tx - vel.X) * k
		vel.Z += (tz - vel.Z) * k
	} else {
		k := blendFactor(dt, m.Friction)
		vel.X -= vel.X * k
		vel.Z -= vel.Z * k
	}

	vel.Y -= m.Gravity * dt

	// Probe the ground under the current and predicted positions.
	nx := pos.X + vel.X*dt
	nz := pos.Z + vel.Z*dt
	ground, haveGround := c.Probe.Sample(pos.X, pos.Z)
	nextGround, nextOK := c.Probe.Sample(nx, nz)

	switch {
	case !haveGround:
		// Off the map: no ground and no horizontal travel.
	case !nextOK:
		// The map edge acts as a wall.
		res.EdgeStop = vel.X != 0 || vel.Z != 0
		vel.X, vel.Z = 0, 0
	default:
		pos.X, pos.Z = nx, nz
		ground = nextGround
	}

	pos.Y += vel.Y * dt

	body.Grounded = false
	if haveGround && pos.Y <= ground+body.EyeHeight+m.SnapTolerance && vel.Y <= 0 {
		pos.Y = ground + body.EyeHeight
		vel.Y = 0
		body.Grounded = true
	}

	if body.Grounded && intent.Jump {
		vel.Y += m.JumpImpulse(dt)
		res.Jumped = true
	}
	return res
}
