package systems

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
)

// Generation errors. Callers compare with errors.Is.
var (
	ErrInvalidDimensions = errors.New("invalid terrain dimensions")
	ErrInvalidNoise      = errors.New("invalid noise parameters")
)

// heightBias lifts the squared noise into the working range; heightOffset is
// subtracted again when converting to world units.
const (
	heightBias   = 0.5
	heightOffset = 0.45
)

// HeightFieldParams describes a height field to generate.
type HeightFieldParams struct {
	Width      int
	Depth      int
	NoiseScale float64
	Seed       int64
	FBM        FBMParams
}

// Validate reports parameter combinations the generator refuses to run.
func (p HeightFieldParams) Validate() error {
	if p.Width <= 0 || p.Depth <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.Width, p.Depth)
	}
	if !(p.NoiseScale > 0) || math.IsInf(p.NoiseScale, 0) {
		return fmt.Errorf("%w: noise scale %v", ErrInvalidNoise, p.NoiseScale)
	}
	if p.FBM.Octaves < 0 {
		return fmt.Errorf("%w: %d octaves", ErrInvalidNoise, p.FBM.Octaves)
	}
	return nil
}

// HeightField is a (Width+1)x(Depth+1) grid of normalized heights,
// indexed Heights[z][x]. It is immutable once generated.
type HeightField struct {
	Width   int
	Depth   int
	Heights [][]float64
}

// At returns the stored height of vertex (x, z).
func (f *HeightField) At(x, z int) float64 {
	return f.Heights[z][x]
}

// GenerateHeightField evaluates fBm at every grid vertex, remaps it to
// [0,1], squares it and adds a constant bias.
func GenerateHeightField(params HeightFieldParams) (*HeightField, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	perm := BuildPermutation(params.Seed)

	rows := params.Depth + 1
	cols := params.Width + 1
	heights := make([][]float64, rows)
	for z := range heights {
		heights[z] = make([]float64, cols)
	}

	// Rows are independent; fan them out to a fixed set of workers.
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > rows {
		numWorkers = rows
	}
	work := make(chan int, rows)
	for z := 0; z < rows; z++ {
		work <- z
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range work {
				fillRow(heights[z], z, perm, params)
			}
		}()
	}
	wg.Wait()

	return &HeightField{
		Width:   params.Width,
		Depth:   params.Depth,
		Heights: heights,
	}, nil
}

func fillRow(row []float64, z int, perm *Permutation, params HeightFieldParams) {
	nz := float64(z) * params.NoiseScale
	for x := range row {
		nx := float64(x) * params.NoiseScale
		h := perm.FBM(nx, nz, params.FBM)
		h = (h + 1.0) * 0.5
		row[x] = float64(h*h) + heightBias
	}
}

// WorldHeight converts a normalized height to world units.
func WorldHeight(h, heightScale float64) float64 {
	return (h - heightOffset) * heightScale
}
