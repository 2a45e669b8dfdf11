package game

import (
	"github.com/pthm-cable/strata/camera"
	"github.com/pthm-cable/strata/components"
	"github.com/pthm-cable/strata/systems"
)

// Mesh is an uploaded triangle mesh.
type Mesh interface {
	SetModelMatrix(m camera.Mat4)
	SetTriangleColor(i int, c systems.Color)
	Draw()
}

// Renderer draws the world. Implemented with raylib in renderer/.
type Renderer interface {
	CreateMesh(vertices []float32, indices []uint32) Mesh
	SetCamera(cam *camera.FirstPerson, eye components.Position)
	Draw(meshes []Mesh, hud HUD)
}

// HUD is the overlay text state for one frame.
type HUD struct {
	Mode     string
	Tick     int64
	Eye      components.Position
	Speed    float64
	Grounded bool
	Class    string // terrain under the player, empty if unknown
}

// uploadMesh creates a renderer mesh from generated geometry and paints its
// triangles.
func uploadMesh(r Renderer, gm *systems.GridMesh, model camera.Mat4) Mesh {
	m := r.CreateMesh(gm.Vertices, gm.Indices)
	m.SetModelMatrix(model)
	for i, c := range gm.Colors() {
		m.SetTriangleColor(i, c)
	}
	return m
}
