package systems

import "math/bits"

// MT19937 parameters.
const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// mersenneTwister is the 32-bit MT19937 generator with init_by_array
// seeding, so a seed yields the same permutation table on every runtime
// that shuffles with a standard MT19937.
type mersenneTwister struct {
	mt  [mtN]uint32
	mti int
}

// newMersenneTwister seeds from the 32-bit words of |seed|, least
// significant word first (at least one word, so seed 0 is the key {0}).
func newMersenneTwister(seed int64) *mersenneTwister {
	n := uint64(seed)
	if seed < 0 {
		n = -n
	}
	key := []uint32{uint32(n)}
	if hi := uint32(n >> 32); hi != 0 {
		key = append(key, hi)
	}

	m := &mersenneTwister{}
	m.seedArray(key)
	return m
}

func (m *mersenneTwister) seed(s uint32) {
	m.mt[0] = s
	for i := 1; i < mtN; i++ {
		prev := m.mt[i-1]
		m.mt[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.mti = mtN
}

func (m *mersenneTwister) seedArray(key []uint32) {
	m.seed(19650218)

	i, j := 1, 0
	k := mtN
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		prev := m.mt[i-1]
		m.mt[i] = (m.mt[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.mt[0] = m.mt[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		prev := m.mt[i-1]
		m.mt[i] = (m.mt[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.mt[0] = m.mt[mtN-1]
			i = 1
		}
	}
	m.mt[0] = 0x80000000
}

// Uint32 returns the next tempered 32-bit output.
func (m *mersenneTwister) Uint32() uint32 {
	if m.mti >= mtN {
		m.twist()
	}

	y := m.mt[m.mti]
	m.mti++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

func (m *mersenneTwister) twist() {
	for kk := 0; kk < mtN; kk++ {
		y := (m.mt[kk] & mtUpperMask) | (m.mt[(kk+1)%mtN] & mtLowerMask)
		v := m.mt[(kk+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			v ^= mtMatrixA
		}
		m.mt[kk] = v
	}
	m.mti = 0
}

// Below returns a uniform integer in [0, n) by rejection sampling the top
// bits(n) bits of each output. n must be in [1, 2^32).
func (m *mersenneTwister) Below(n int) int {
	k := bits.Len32(uint32(n))
	for {
		r := int(m.Uint32() >> (32 - k))
		if r < n {
			return r
		}
	}
}

