// Package components defines ECS components for the simulation.
package components

import "math"

// Intent is the per-tick movement request produced by the input collaborator.
// It is consumed once per tick and never retained.
type Intent struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool
}

// Axes returns the strafe (+right) and forward (+forward) components,
// normalized so diagonal input is not faster than straight input.
func (i Intent) Axes() (strafe, forward float64) {
	if i.Forward {
		forward++
	}
	if i.Back {
		forward--
	}
	if i.Right {
		strafe++
	}
	if i.Left {
		strafe--
	}
	if l := math.Hypot(strafe, forward); l > 1 {
		strafe /= l
		forward /= l
	}
	return strafe, forward
}

// Moving reports whether any horizontal key is held.
func (i Intent) Moving() bool {
	s, f := i.Axes()
	return s != 0 || f != 0
}
