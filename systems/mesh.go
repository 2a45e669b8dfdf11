package systems

// GridMesh is the triangulated height field handed to the renderer.
// The grid is centred on the origin and vertex heights are in world units.
type GridMesh struct {
	Vertices []float32 // x, y, z triples
	Indices  []uint32  // three per triangle
	Classes  []TerrainClass
}

// TriangleCount returns the number of triangles.
func (m *GridMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Colors returns the per-triangle render colors.
func (m *GridMesh) Colors() []Color {
	colors := make([]Color, len(m.Classes))
	for i, c := range m.Classes {
		colors[i] = c.Color()
	}
	return colors
}

// BuildGridMesh emits two triangles per cell split along the v10-v01
// diagonal, both wound counter-clockwise when seen from above. Each
// triangle is classified by the mean of its own three corners.
func BuildGridMesh(f *HeightField, heightScale float64) *GridMesh {
	cols := f.Width + 1
	halfW := float64(f.Width) / 2
	halfD := float64(f.Depth) / 2

	m := &GridMesh{
		Vertices: make([]float32, 0, cols*(f.Depth+1)*3),
		Indices:  make([]uint32, 0, f.Width*f.Depth*6),
		Classes:  make([]TerrainClass, 0, f.Width*f.Depth*2),
	}

	for z := 0; z <= f.Depth; z++ {
		for x := 0; x <= f.Width; x++ {
			m.Vertices = append(m.Vertices,
				float32(float64(x)-halfW),
				float32(WorldHeight(f.Heights[z][x], heightScale)),
				float32(float64(z)-halfD),
			)
		}
	}

	index := func(x, z int) uint32 { return uint32(z*cols + x) }

	for z := 0; z < f.Depth; z++ {
		for x := 0; x < f.Width; x++ {
			v00, v10 := index(x, z), index(x+1, z)
			v01, v11 := index(x, z+1), index(x+1, z+1)
			h00, h10 := f.Heights[z][x], f.Heights[z][x+1]
			h01, h11 := f.Heights[z+1][x], f.Heights[z+1][x+1]

			m.Indices = append(m.Indices, v00, v01, v10)
			m.Classes = append(m.Classes, ClassifyHeight((h00+h01+h10)/3))

			m.Indices = append(m.Indices, v10, v01, v11)
			m.Classes = append(m.Classes, ClassifyHeight((h10+h01+h11)/3))
		}
	}

	return m
}

// BuildColumnMesh emits the unit-footprint box [0,1] x [0,top] x [0,1] for a
// voxel column. The top face is classed as grass and the sides as rock; the
// bottom face is never visible and is left out.
func BuildColumnMesh(top int) *GridMesh {
	h := float32(top)
	m := &GridMesh{
		Vertices: []float32{
			0, 0, 0, // 0
			1, 0, 0, // 1
			1, 0, 1, // 2
			0, 0, 1, // 3
			0, h, 0, // 4
			1, h, 0, // 5
			1, h, 1, // 6
			0, h, 1, // 7
		},
	}

	quad := func(a, b, c, d uint32, class TerrainClass) {
		m.Indices = append(m.Indices, a, b, c, a, c, d)
		m.Classes = append(m.Classes, class, class)
	}
	// Counter-clockwise seen from outside.
	quad(4, 7, 6, 5, ClassGrass) // +Y
	quad(3, 2, 6, 7, ClassRock)  // +Z
	quad(1, 0, 4, 5, ClassRock)  // -Z
	quad(2, 1, 5, 6, ClassRock)  // +X
	quad(0, 3, 7, 4, ClassRock)  // -X
	return m
}
