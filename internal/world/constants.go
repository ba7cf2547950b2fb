package world

// Simulation constants.
const (
	// MarbleRadius is the marble radius in meters.
	MarbleRadius = 0.42

	// RollThreshold is the squared marble speed above which roll events fire.
	RollThreshold = 2.1
	// HitThreshold is the normal impulse above which a contact is a hit.
	HitThreshold = 8.0
	// VelocityThreshold is the approach speed below which collisions are
	// inelastic. It is a single process-wide value.
	VelocityThreshold = 8.0

	// TimeStep is the fixed physics step in seconds.
	TimeStep = 1.0 / 45
	// MaxStepsPerFrame bounds the accumulated time carried into one Update.
	MaxStepsPerFrame = 5

	// VelocityIterations is the solver's velocity pass count per step.
	VelocityIterations = 8
	// PositionIterations is the solver's position pass count per step.
	PositionIterations = 3
)

// stepEpsilon absorbs float error when the accumulator holds whole steps.
const stepEpsilon = 1e-9
