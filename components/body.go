package components

import "github.com/pthm-cable/strata/config"

// Body holds the player's collision volume and contact state.
type Body struct {
	Radius    float64 // horizontal half extent
	Height    float64 // full standing height
	EyeHeight float64 // eye offset above the feet
	Grounded  bool
}

// BodyFromConfig returns the player body described by the config.
func BodyFromConfig(cfg *config.Config) Body {
	return Body{
		Radius:    cfg.Player.Radius,
		Height:    cfg.Player.Height,
		EyeHeight: cfg.Player.EyeHeight,
	}
}
