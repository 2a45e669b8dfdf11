package systems

import (
	"math"

	"github.com/pthm-cable/strata/components"
)

// VoxelCollider is the player's box against a BlockSet: Radius is the
// horizontal half-extent, Height the vertical extent above the feet.
type VoxelCollider struct {
	Radius float64
	Height float64
}

// Axis identifies one displacement component.
type Axis uint8

const (
	AxisX Axis = iota
	AxisZ
	AxisY
)

// Resolution records which axes a Resolve call rejected.
type Resolution struct {
	Grounded bool
	Blocked  [3]bool // indexed by Axis
}

// Resolve moves feet by delta one axis at a time (x, then z, then y). An
// axis whose candidate box overlaps a solid cell keeps its old coordinate.
// A rejected downward move reports grounded.
func (c VoxelCollider) Resolve(blocks BlockSet, feet components.Position, delta components.Velocity) (components.Position, bool) {
	pos, res := c.ResolveAxes(blocks, feet, delta)
	return pos, res.Grounded
}

// ResolveAxes is Resolve with per-axis rejection detail.
func (c VoxelCollider) ResolveAxes(blocks BlockSet, feet components.Position, delta components.Velocity) (components.Position, Resolution) {
	var res Resolution
	pos := feet

	if delta.X != 0 {
		cand := pos
		cand.X += delta.X
		if c.Overlaps(blocks, cand) {
			res.Blocked[AxisX] = true
		} else {
			pos = cand
		}
	}

	if delta.Z != 0 {
		cand := pos
		cand.Z += delta.Z
		if c.Overlaps(blocks, cand) {
			res.Blocked[AxisZ] = true
		} else {
			pos = cand
		}
	}

	if delta.Y != 0 {
		cand := pos
		cand.Y += delta.Y
		if c.Overlaps(blocks, cand) {
			res.Blocked[AxisY] = true
			if delta.Y < 0 {
				res.Grounded = true
			}
		} else {
			pos = cand
		}
	}

	return pos, res
}

// Overlaps reports whether the box anchored at feet touches any solid cell.
func (c VoxelCollider) Overlaps(blocks BlockSet, feet components.Position) bool {
	x0, x1 := cellRange(feet.X-c.Radius, feet.X+c.Radius)
	y0, y1 := cellRange(feet.Y, feet.Y+c.Height)
	z0, z1 := cellRange(feet.Z-c.Radius, feet.Z+c.Radius)

	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				if blocks.Has(BlockPos{x, y, z}) {
					return true
				}
			}
		}
	}
	return false
}

// cellRange maps the half-open interval [lo, hi) to the inclusive range of
// unit cells it covers.
func cellRange(lo, hi float64) (int, int) {
	return int(math.Floor(lo)), int(math.Ceil(hi)) - 1
}
