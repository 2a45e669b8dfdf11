package systems

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidVoxel is returned for voxel parameters the generator refuses.
var ErrInvalidVoxel = errors.New("invalid voxel parameters")

// BlockPos is an integer cell coordinate. Cell (x, y, z) occupies the unit
// cube [x, x+1) × [y, y+1) × [z, z+1).
type BlockPos struct {
	X, Y, Z int
}

// BlockSet is the set of solid cells of a voxel world.
type BlockSet map[BlockPos]struct{}

// Has reports whether the cell is solid.
func (s BlockSet) Has(p BlockPos) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of solid cells.
func (s BlockSet) Len() int {
	return len(s)
}

// Sorted returns the cells ordered by x, then z, then y.
func (s BlockSet) Sorted() []BlockPos {
	out := make([]BlockPos, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b BlockPos) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Z, b.Z); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return out
}

// ColumnTop returns the height of the highest solid cell in column (x, z)
// plus one, or 0 and false if the column is empty.
func (s BlockSet) ColumnTop(x, z, maxY int) (int, bool) {
	for y := maxY; y >= 0; y-- {
		if s.Has(BlockPos{x, y, z}) {
			return y + 1, true
		}
	}
	return 0, false
}

// Column is one occupied (x, z) column and the height of its top surface.
type Column struct {
	X, Z int
	Top  int
}

// Columns returns every occupied column ordered by x, then z.
func (s BlockSet) Columns() []Column {
	tops := make(map[[2]int]int)
	for p := range s {
		key := [2]int{p.X, p.Z}
		tops[key] = max(tops[key], p.Y+1)
	}

	out := make([]Column, 0, len(tops))
	for k, top := range tops {
		out = append(out, Column{X: k[0], Z: k[1], Top: top})
	}
	slices.SortFunc(out, func(a, b Column) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Z, b.Z)
	})
	return out
}

// VoxelParams describes the radial pillar terrain.
type VoxelParams struct {
	Radius    int
	MaxHeight float64
	Falloff   float64
	CenterX   int
	CenterZ   int
}

// Validate reports parameter combinations the generator refuses to run.
func (p VoxelParams) Validate() error {
	if p.Radius <= 0 {
		return fmt.Errorf("%w: radius %d", ErrInvalidVoxel, p.Radius)
	}
	if !(p.MaxHeight >= 0) || math.IsInf(p.MaxHeight, 0) {
		return fmt.Errorf("%w: max height %v", ErrInvalidVoxel, p.MaxHeight)
	}
	if !(p.Falloff >= 0) || math.IsInf(p.Falloff, 0) {
		return fmt.Errorf("%w: falloff %v", ErrInvalidVoxel, p.Falloff)
	}
	return nil
}

// GenerateVoxelTerrain emits, for every column in the square of half-size
// Radius around the centre, a ground block at y=0 and a stack of blocks up
// to floor(max(0, MaxHeight - distance*Falloff)).
func GenerateVoxelTerrain(params VoxelParams) (BlockSet, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r := params.Radius
	blocks := make(BlockSet, 4*r*r)
	for x := params.CenterX - r; x < params.CenterX+r; x++ {
		for z := params.CenterZ - r; z < params.CenterZ+r; z++ {
			d := math.Hypot(float64(x-params.CenterX), float64(z-params.CenterZ))
			h := max(0, params.MaxHeight-d*params.Falloff)

			blocks[BlockPos{x, 0, z}] = struct{}{}
			top := int(math.Floor(h))
			for y := 0; y < top; y++ {
				blocks[BlockPos{x, y, z}] = struct{}{}
			}
		}
	}
	return blocks, nil
}
