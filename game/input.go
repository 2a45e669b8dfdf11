package game

import "github.com/pthm-cable/strata/components"

// Key identifies a physical key the game polls.
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
)

// InputState is the polled input surface. The raylib adapter lives in
// renderer/; headless runs use ScriptedInput.
type InputState interface {
	IsKeyDown(k Key) bool
	MousePosition() (x, y float64)
}

// IntentFromInput maps held keys to a movement intent. Arrow keys mirror WASD.
func IntentFromInput(in InputState) components.Intent {
	return components.Intent{
		Forward: in.IsKeyDown(KeyW) || in.IsKeyDown(KeyUp),
		Back:    in.IsKeyDown(KeyS) || in.IsKeyDown(KeyDown),
		Left:    in.IsKeyDown(KeyA) || in.IsKeyDown(KeyLeft),
		Right:   in.IsKeyDown(KeyD) || in.IsKeyDown(KeyRight),
		Jump:    in.IsKeyDown(KeySpace),
	}
}

// mouseTracker turns absolute mouse positions into per-tick deltas.
type mouseTracker struct {
	x, y   float64
	primed bool
}

// Delta returns the mouse travel since the previous call. The first call
// only records the position.
func (m *mouseTracker) Delta(in InputState) (dx, dy float64) {
	x, y := in.MousePosition()
	if m.primed {
		dx, dy = x-m.x, y-m.y
	}
	m.x, m.y = x, y
	m.primed = true
	return dx, dy
}

// Reset forgets the last position, e.g. after the cursor is re-captured.
func (m *mouseTracker) Reset() {
	m.primed = false
}
