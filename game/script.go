package game

// ScriptedInput is a deterministic pilot for headless runs. It always walks
// forward, turns by TurnPixels of mouse travel every TurnEvery ticks, strafes
// right during every other turn leg and holds jump for one tick every
// JumpEvery ticks.
type ScriptedInput struct {
	TurnEvery  int
	TurnPixels float64
	JumpEvery  int

	tick   int
	mouseX float64
}

// NewScriptedInput returns the pilot used by the CLI.
func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{
		TurnEvery:  240,
		TurnPixels: 300,
		JumpEvery:  90,
	}
}

// Advance moves the script to the next tick.
func (s *ScriptedInput) Advance() {
	s.tick++
	if s.TurnEvery > 0 && s.tick%s.TurnEvery == 0 {
		s.mouseX += s.TurnPixels
	}
}

// IsKeyDown implements InputState.
func (s *ScriptedInput) IsKeyDown(k Key) bool {
	switch k {
	case KeyW:
		return true
	case KeyD:
		return s.TurnEvery > 0 && (s.tick/s.TurnEvery)%2 == 1
	case KeySpace:
		return s.JumpEvery > 0 && s.tick%s.JumpEvery == 0
	}
	return false
}

// MousePosition implements InputState.
func (s *ScriptedInput) MousePosition() (x, y float64) {
	return s.mouseX, 0
}
