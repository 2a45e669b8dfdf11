package main

import (
	"github.com/pthm-cable/strata/config"
)

// ParamSpec defines a single tunable movement parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the movement parameter set. Defaults are taken
// from base so a run starts from the config being tuned.
func NewParamVector(base *config.Config) *ParamVector {
	m := base.Movement
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "move_speed", Path: "movement.move_speed", Min: 2.0, Max: 12.0, Default: m.MoveSpeed},
			{Name: "accel", Path: "movement.accel", Min: 0.02, Max: 0.6, Default: m.Accel},
			{Name: "friction", Path: "movement.friction", Min: 0.02, Max: 0.6, Default: m.Friction},
			{Name: "jump_speed", Path: "movement.jump_speed", Min: 8.0, Max: 48.0, Default: m.JumpSpeed},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the starting values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into the movement section.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Movement.MoveSpeed = clamped[0]
	cfg.Movement.Accel = clamped[1]
	cfg.Movement.Friction = clamped[2]
	cfg.Movement.JumpSpeed = clamped[3]
}

// ExtractFromConfig reads the current parameter values from a config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Movement.MoveSpeed,
		cfg.Movement.Accel,
		cfg.Movement.Friction,
		cfg.Movement.JumpSpeed,
	}
}
