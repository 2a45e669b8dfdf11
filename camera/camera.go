// Package camera provides a first-person camera for viewing the terrain.
package camera

import "math"

// FirstPerson is a yaw/pitch look camera. Yaw 0 looks down -Z and positive
// yaw turns toward +X; positive pitch looks up.
type FirstPerson struct {
	Pitch, Yaw float64

	// Vertical field of view in degrees
	FOV float64

	// Radians of rotation per pixel of mouse travel
	Sensitivity float64

	// Pitch is clamped to [-PitchLimit, PitchLimit]
	PitchLimit float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Clip planes
	Near, Far float64
}

// New creates a camera looking down -Z.
func New(viewportW, viewportH, fov, sensitivity, pitchLimit float64) *FirstPerson {
	return &FirstPerson{
		FOV:         fov,
		Sensitivity: sensitivity,
		PitchLimit:  pitchLimit,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		Near:        0.1,
		Far:         500,
	}
}

// Look applies a mouse delta in pixels. Moving the mouse right turns right,
// moving it down looks down.
func (c *FirstPerson) Look(dx, dy float64) {
	c.Yaw = wrapAngle(c.Yaw + dx*c.Sensitivity)
	c.SetPitch(c.Pitch - dy*c.Sensitivity)
}

// SetPitch sets the pitch, clamped to the limit.
func (c *FirstPerson) SetPitch(pitch float64) {
	c.Pitch = clamp(pitch, -c.PitchLimit, c.PitchLimit)
}

// Forward returns the unit horizontal forward vector (x, z).
func (c *FirstPerson) Forward() (x, z float64) {
	s, co := math.Sincos(c.Yaw)
	return s, -co
}

// Right returns the unit horizontal right vector (x, z).
func (c *FirstPerson) Right() (x, z float64) {
	s, co := math.Sincos(c.Yaw)
	return co, s
}

// Direction returns the full unit look vector including pitch.
func (c *FirstPerson) Direction() (x, y, z float64) {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return sy * cp, sp, -cy * cp
}

// Target returns the point one unit ahead of eye along the look vector.
func (c *FirstPerson) Target(ex, ey, ez float64) (x, y, z float64) {
	dx, dy, dz := c.Direction()
	return ex + dx, ey + dy, ez + dz
}

// Aspect returns the viewport aspect ratio.
func (c *FirstPerson) Aspect() float64 {
	if c.ViewportH == 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Resize updates viewport dimensions.
func (c *FirstPerson) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to looking down -Z.
func (c *FirstPerson) Reset() {
	c.Pitch = 0
	c.Yaw = 0
}

// ViewMatrix returns the world-to-view transform for an eye position.
func (c *FirstPerson) ViewMatrix(ex, ey, ez float64) Mat4 {
	return RotationX(-c.Pitch).Mul(RotationY(-c.Yaw)).Mul(Translate(-ex, -ey, -ez))
}

// ProjectionMatrix returns the perspective projection for the viewport.
func (c *FirstPerson) ProjectionMatrix() Mat4 {
	return Perspective(c.FOV*math.Pi/180, c.Aspect(), c.Near, c.Far)
}

// wrapAngle keeps an angle in (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
