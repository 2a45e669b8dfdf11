package systems

import "math"

// HeightSampler answers world-space height queries against a HeightField.
// The field is centred on the origin: world (x, z) maps to grid
// (x + W/2, z + D/2). It holds no mutable state.
type HeightSampler struct {
	field       *HeightField
	heightScale float64
	halfWidth   float64
	halfDepth   float64
}

// NewHeightSampler wraps a generated field.
func NewHeightSampler(field *HeightField, heightScale float64) *HeightSampler {
	return &HeightSampler{
		field:       field,
		heightScale: heightScale,
		halfWidth:   float64(field.Width) / 2,
		halfDepth:   float64(field.Depth) / 2,
	}
}

// Field returns the underlying height field.
func (s *HeightSampler) Field() *HeightField {
	return s.field
}

// Sample returns the world-space ground height at (x, z), or false when
// the point lies outside the field.
func (s *HeightSampler) Sample(x, z float64) (float64, bool) {
	h, ok := s.SampleNormalized(x, z)
	if !ok {
		return 0, false
	}
	return WorldHeight(h, s.heightScale), true
}

// SampleNormalized returns the bilinearly blended stored height at (x, z)
// without the world transform.
func (s *HeightSampler) SampleNormalized(x, z float64) (float64, bool) {
	gx := x + s.halfWidth
	gz := z + s.halfDepth
	w, d := s.field.Width, s.field.Depth

	// NaN fails every comparison, so test for inclusion.
	if !(gx >= 0 && gz >= 0 && gx <= float64(w) && gz <= float64(d)) {
		return 0, false
	}

	x0 := int(math.Floor(gx))
	z0 := int(math.Floor(gz))
	x1 := min(x0+1, w)
	z1 := min(z0+1, d)

	fx := gx - float64(x0)
	fz := gz - float64(z0)

	h00 := s.field.Heights[z0][x0]
	h10 := s.field.Heights[z0][x1]
	h01 := s.field.Heights[z1][x0]
	h11 := s.field.Heights[z1][x1]

	h0 := h00 + float64((h10-h00)*fx)
	h1 := h01 + float64((h11-h01)*fx)
	return h0 + float64((h1-h0)*fz), true
}
