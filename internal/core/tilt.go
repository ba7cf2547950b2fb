package core

// Tilt turns discrete key presses into a gravity vector. Terminals report
// key presses but not releases, so each press nudges the tilt and the tilt
// relaxes back toward level on every tick without input on that axis.
type Tilt struct {
	Step  float64 // Gravity added per press
	Max   float64 // Per-axis cap
	Decay float64 // Fraction kept per idle tick

	x, y float64
}

// NewTilt creates a level tilt.
func NewTilt(step, maxTilt, decay float64) *Tilt {
	return &Tilt{Step: step, Max: maxTilt, Decay: decay}
}

// Apply advances the tilt by one tick of input and returns the gravity
// vector, y up.
func (t *Tilt) Apply(f InputFrame) (float64, float64) {
	if f.Has(ActionLevel) {
		t.x, t.y = 0, 0
		return 0, 0
	}
	t.x = t.axis(t.x, f.Has(ActionTiltRight), f.Has(ActionTiltLeft))
	t.y = t.axis(t.y, f.Has(ActionTiltUp), f.Has(ActionTiltDown))
	return t.x, t.y
}

func (t *Tilt) axis(v float64, plus, minus bool) float64 {
	switch {
	case plus && !minus:
		return ClampF(v+t.Step, -t.Max, t.Max)
	case minus && !plus:
		return ClampF(v-t.Step, -t.Max, t.Max)
	default:
		return v * t.Decay
	}
}

// Gravity returns the current gravity vector without advancing.
func (t *Tilt) Gravity() (float64, float64) {
	return t.x, t.y
}
