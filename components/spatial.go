package components

import "math"

// Position represents an entity's world position. For the player this is the
// eye point in height-field worlds and the feet point in voxel worlds.
type Position struct {
	X, Y, Z float64
}

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	X, Y, Z float64
}

// HorizontalSpeed returns the length of the XZ component.
func (v Velocity) HorizontalSpeed() float64 {
	return math.Hypot(v.X, v.Z)
}

// Orientation is the look direction in radians.
// Yaw 0 looks down -Z; positive pitch looks up.
type Orientation struct {
	Pitch float64
	Yaw   float64
}
