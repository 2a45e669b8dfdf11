package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/strata/game"
)

var keyMap = map[game.Key]int32{
	game.KeyW:     rl.KeyW,
	game.KeyA:     rl.KeyA,
	game.KeyS:     rl.KeyS,
	game.KeyD:     rl.KeyD,
	game.KeyUp:    rl.KeyUp,
	game.KeyDown:  rl.KeyDown,
	game.KeyLeft:  rl.KeyLeft,
	game.KeyRight: rl.KeyRight,
	game.KeySpace: rl.KeySpace,
}

// Input adapts raylib polling to game.InputState. While the cursor is free
// the mouse position is frozen so the camera does not turn.
type Input struct {
	locked bool
	mx, my float64
}

// NewInput creates the adapter with the cursor released.
func NewInput() *Input {
	return &Input{}
}

// Poll handles cursor capture: a left click locks the cursor and Tab
// releases it. Returns true when the lock state changed.
func (in *Input) Poll() bool {
	switch {
	case !in.locked && rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		rl.DisableCursor()
		in.locked = true
		return true
	case in.locked && rl.IsKeyPressed(rl.KeyTab):
		rl.EnableCursor()
		in.locked = false
		return true
	}

	if in.locked {
		p := rl.GetMousePosition()
		in.mx, in.my = float64(p.X), float64(p.Y)
	}
	return false
}

// Locked reports whether the cursor is captured.
func (in *Input) Locked() bool {
	return in.locked
}

// IsKeyDown implements game.InputState.
func (in *Input) IsKeyDown(k game.Key) bool {
	code, ok := keyMap[k]
	return ok && rl.IsKeyDown(code)
}

// MousePosition implements game.InputState.
func (in *Input) MousePosition() (x, y float64) {
	return in.mx, in.my
}
