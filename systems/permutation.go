package systems

// Permutation is the seeded lookup table behind the gradient noise.
// The first 256 entries are a permutation of 0..255 and the second half
// repeats them so corner lookups never wrap.
type Permutation struct {
	perm [512]int
}

// BuildPermutation creates the table for a seed. Identical seeds give
// identical tables on every platform.
func BuildPermutation(seed int64) *Permutation {
	p := &Permutation{}
	rng := newMersenneTwister(seed)

	// Initialize permutation table
	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Below(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Base returns a copy of the undoubled 256-entry permutation.
func (p *Permutation) Base() [256]int {
	var out [256]int
	copy(out[:], p.perm[:256])
	return out
}

// At returns entry i of the doubled table.
func (p *Permutation) At(i int) int {
	return p.perm[i]
}
